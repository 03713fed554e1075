// Command workoutctl is a terminal client of the workoutlog API.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/2beens/workoutlog/internal/apiclient"
	"github.com/2beens/workoutlog/internal/config"
	"github.com/2beens/workoutlog/internal/exercises"
	"github.com/2beens/workoutlog/internal/schedule"
	"github.com/2beens/workoutlog/internal/workouts"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	defaultAPIBaseURL   = "http://localhost:5000"
	defaultCacheSizeMB  = 16
	apiBaseURLEnvVar    = "WORKOUTLOG_API_URL"
	sessionFileOverride = "WORKOUTLOG_SESSION_FILE"
)

var (
	flagAPIBaseURL string
	flagConfigPath string
	flagEnv        string
	flagVerbose    bool
)

var (
	client  *apiclient.Client
	session *storedSession
)

var (
	cacheMB  = defaultCacheSizeMB
	errLogin = errors.New("not logged in, run: workoutctl login <username> <password>")
)

var rootCmd = &cobra.Command{
	Use:   "workoutctl",
	Short: "Workout log client",
	Long: `workoutctl talks to a workoutlog backend.

QUICK START:

  $ workoutctl register alice secret
  $ workoutctl login alice secret
  $ workoutctl exercise add Squat Legs
  $ workoutctl workout add 2024-05-01 1
  $ workoutctl workout show 2024-05-01
  $ workoutctl schedule set 1 --target Legs`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetLevel(log.WarnLevel)
		if flagVerbose {
			log.SetLevel(log.DebugLevel)
		}

		baseURL := resolveBaseURL()
		log.Debugf("using api [%s]", baseURL)
		client = apiclient.New(baseURL, nil)

		var err error
		session, err = loadSession(sessionPath())
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		if session != nil {
			client.SetToken(session.Token)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIBaseURL, "api", "", "API base URL (default $"+apiBaseURLEnvVar+" or the config file)")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "optional TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagEnv, "env", "development", "config environment")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(exerciseCmd, workoutCmd, setCmd, scheduleCmd, seedCmd)
}

// resolveBaseURL picks the flag, then the env var, then the config file.
func resolveBaseURL() string {
	if flagAPIBaseURL != "" {
		return flagAPIBaseURL
	}
	if fromEnv := os.Getenv(apiBaseURLEnvVar); fromEnv != "" {
		return fromEnv
	}
	if flagConfigPath != "" {
		cfg, err := config.Load(flagEnv, flagConfigPath)
		if err != nil {
			log.Warnf("load config [%s]: %s", flagConfigPath, err)
		} else {
			cacheMB = cfg.WorkoutCacheSizeMB
			if cfg.APIBaseURL != "" {
				return cfg.APIBaseURL
			}
		}
	}
	return defaultAPIBaseURL
}

func requireSession() (*storedSession, error) {
	if session == nil {
		return nil, errLogin
	}
	return session, nil
}

func newAggregator() *workouts.Aggregator {
	return workouts.NewAggregator(client.Workouts(), workouts.NewCache(cacheMB<<20))
}

func newCatalog() *exercises.Catalog {
	return exercises.NewCatalog(client.Exercises())
}

func newPlanner(userID int) *schedule.Planner {
	return schedule.NewPlanner(client.Schedule(), userID)
}
