// Package main runs the workoutlog MCP server over stdio, backed by the HTTP API.
// The same tools are mounted on the backend at /mcp when mcp_enabled is set.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/2beens/workoutlog/internal/apiclient"
	"github.com/2beens/workoutlog/internal/auth"
	"github.com/2beens/workoutlog/internal/config"
	workoutmcp "github.com/2beens/workoutlog/internal/mcp"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout belongs to the MCP transport
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	log.SetLevel(log.InfoLevel)

	ctx := context.Background()
	client := apiclient.New(cfg.APIBaseURL, nil)

	username, password := os.Getenv("WORKOUTLOG_USERNAME"), os.Getenv("WORKOUTLOG_PASSWORD")
	if username != "" {
		loginResp, err := client.Login(ctx, auth.Credentials{Username: username, Password: password})
		if err != nil {
			log.Fatalf("login [%s]: %s", username, err)
		}
		log.Infof("logged in as [%s], user id %d", loginResp.Username, loginResp.ID)
		defer func() {
			if err := client.Logout(context.Background()); err != nil {
				log.Warnf("logout: %s", err)
			}
		}()
	}

	server := workoutmcp.NewServer(client.Workouts(), client.Exercises(), client.Schedule())
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Errorf("mcp server: %s", err)
	}
}
