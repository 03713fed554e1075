package schedule_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/2beens/workoutlog/internal/schedule"
)

func TestPlanner_Fetch(t *testing.T) {
	storeMock := NewMockStore(gomock.NewController(t))
	planner := schedule.NewPlanner(storeMock, 5)

	storeMock.EXPECT().List(gomock.Any(), 5).Return([]schedule.DayPlan{
		{ID: 1, UserID: 5, DayOfWeek: 0, IsRestDay: true},
		{ID: 2, UserID: 5, DayOfWeek: 2, TargetBodyPart: "Back"},
	}, nil)
	require.NoError(t, planner.Fetch(context.Background()))

	plans := planner.Plans()
	require.Len(t, plans, 2)
	assert.True(t, plans[0].IsRestDay)
	assert.Equal(t, "Back", plans[2].TargetBodyPart)

	// rebuilt fresh: a day missing from the new result is gone
	storeMock.EXPECT().List(gomock.Any(), 5).Return([]schedule.DayPlan{
		{ID: 2, UserID: 5, DayOfWeek: 2, TargetBodyPart: "Back"},
	}, nil)
	require.NoError(t, planner.Fetch(context.Background()))
	_, ok := planner.DayPlan(0)
	assert.False(t, ok)

	storeMock.EXPECT().List(gomock.Any(), 5).Return(nil, errors.New("timeout"))
	assert.Error(t, planner.Fetch(context.Background()))
	// failed fetch keeps what was there
	_, ok = planner.DayPlan(2)
	assert.True(t, ok)
}

func TestPlanner_SaveDayPlan_Overwrites(t *testing.T) {
	storeMock := NewMockStore(gomock.NewController(t))
	planner := schedule.NewPlanner(storeMock, 5)
	ctx := context.Background()

	storeMock.EXPECT().
		Upsert(gomock.Any(), 5, 1, schedule.DayPlanInput{TargetBodyPart: "Chest"}).
		Return(&schedule.DayPlan{ID: 3, UserID: 5, DayOfWeek: 1, TargetBodyPart: "Chest"}, nil)
	storeMock.EXPECT().
		Upsert(gomock.Any(), 5, 1, schedule.DayPlanInput{TargetBodyPart: "Arms"}).
		Return(&schedule.DayPlan{ID: 3, UserID: 5, DayOfWeek: 1, TargetBodyPart: "Arms"}, nil)

	_, err := planner.SaveDayPlan(ctx, 1, schedule.DayPlanInput{TargetBodyPart: "Chest"})
	require.NoError(t, err)
	saved, err := planner.SaveDayPlan(ctx, 1, schedule.DayPlanInput{TargetBodyPart: "Arms"})
	require.NoError(t, err)
	assert.Equal(t, "Arms", saved.TargetBodyPart)

	plans := planner.Plans()
	require.Len(t, plans, 1)
	assert.Equal(t, "Arms", plans[1].TargetBodyPart)
}

func TestPlanner_InvalidDay(t *testing.T) {
	// no store calls expected
	storeMock := NewMockStore(gomock.NewController(t))
	planner := schedule.NewPlanner(storeMock, 5)

	_, err := planner.SaveDayPlan(context.Background(), 7, schedule.DayPlanInput{})
	assert.ErrorIs(t, err, schedule.ErrInvalidDay)
	assert.ErrorIs(t, planner.DeleteDayPlan(context.Background(), -1), schedule.ErrInvalidDay)
}

func TestPlanner_DeleteDayPlan(t *testing.T) {
	storeMock := NewMockStore(gomock.NewController(t))
	planner := schedule.NewPlanner(storeMock, 5)
	ctx := context.Background()

	storeMock.EXPECT().Upsert(gomock.Any(), 5, 4, gomock.Any()).
		Return(&schedule.DayPlan{ID: 8, UserID: 5, DayOfWeek: 4}, nil)
	_, err := planner.SaveDayPlan(ctx, 4, schedule.DayPlanInput{})
	require.NoError(t, err)

	storeMock.EXPECT().Delete(gomock.Any(), 5, 4).Return(nil)
	require.NoError(t, planner.DeleteDayPlan(ctx, 4))
	_, ok := planner.DayPlan(4)
	assert.False(t, ok)

	// row already removed elsewhere: the local plan goes too
	storeMock.EXPECT().Upsert(gomock.Any(), 5, 2, gomock.Any()).
		Return(&schedule.DayPlan{ID: 9, UserID: 5, DayOfWeek: 2, IsRestDay: true}, nil)
	_, err = planner.SaveDayPlan(ctx, 2, schedule.DayPlanInput{IsRestDay: true})
	require.NoError(t, err)

	storeMock.EXPECT().Delete(gomock.Any(), 5, 2).Return(schedule.ErrDayPlanNotFound)
	require.NoError(t, planner.DeleteDayPlan(ctx, 2))
	_, ok = planner.DayPlan(2)
	assert.False(t, ok)

	// other store failures keep the local plan
	storeMock.EXPECT().Upsert(gomock.Any(), 5, 3, gomock.Any()).
		Return(&schedule.DayPlan{ID: 10, UserID: 5, DayOfWeek: 3}, nil)
	_, err = planner.SaveDayPlan(ctx, 3, schedule.DayPlanInput{})
	require.NoError(t, err)

	storeMock.EXPECT().Delete(gomock.Any(), 5, 3).Return(errors.New("connection reset"))
	assert.Error(t, planner.DeleteDayPlan(ctx, 3))
	_, ok = planner.DayPlan(3)
	assert.True(t, ok)
}
