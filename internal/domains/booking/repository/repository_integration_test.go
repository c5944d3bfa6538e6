//go:build integration

package repository_test

import (
	"context"
	"eventdesk/config"
	"eventdesk/helper"
	otelMocks "eventdesk/infras/otel/mocks"
	"eventdesk/infras/postgres"
	"eventdesk/internal/domains/booking/conflict"
	"eventdesk/internal/domains/booking/model"
	"eventdesk/internal/domains/booking/model/dto"
	"eventdesk/internal/domains/booking/repository"
	gDto "eventdesk/shared/dto"
	gModel "eventdesk/shared/model"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testUser     = "test"
	testPassword = "testpass"
	testDatabase = "eventdesk"
	postgresPort = nat.Port("5432/tcp")
)

func startPostgres(t *testing.T) *postgres.Connection {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{string(postgresPort)},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       testDatabase,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, testcontainers.TerminateContainer(container))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, postgresPort)
	require.NoError(t, err)

	dsn := postgres.DSN(config.Database{
		Host:     host,
		Port:     port.Port(),
		Username: testUser,
		Password: testPassword,
		Name:     testDatabase,
		SSLMode:  "disable",
	}, "")

	mig, err := helper.NewMigrator("file://../../../../migrations/postgres", dsn, "")
	require.NoError(t, err)
	require.NoError(t, helper.Apply(mig, helper.ActionUp))

	sourceErr, dbErr := mig.Close()
	require.NoError(t, sourceErr)
	require.NoError(t, dbErr)

	db, err := postgres.Connect("test", dsn, 5, 1)
	require.NoError(t, err)

	conn := postgres.NewFromDB(db)
	t.Cleanup(conn.Close)

	return conn
}

func day(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse(time.DateOnly, value)
	require.NoError(t, err)

	return parsed
}

func newBooking(t *testing.T, start, end, from, to, status string) model.Booking {
	t.Helper()

	return model.Booking{
		ID:            uuid.NewString(),
		StartDate:     day(t, start),
		EndDate:       day(t, end),
		StartTime:     from,
		EndTime:       to,
		ActivityTitle: "Choir practice",
		RequestorName: "Ana",
		Equipment:     model.Equipments{{Name: "Chairs", Quantity: 20}},
		Status:        status,
		Metadata:      gModel.NewMetadata("user-1", time.Now().UTC()),
	}
}

func TestBookingRepository(t *testing.T) {
	conn := startPostgres(t)
	repo := repository.New(conn, otelMocks.NewOtel())
	ctx := context.Background()

	pending := newBooking(t, "2025-03-10", "2025-03-10", "09:00", "11:00", model.StatusPending)
	approved := newBooking(t, "2025-03-11", "2025-03-12", "13:00", "15:00", model.StatusApproved)
	rejected := newBooking(t, "2025-03-11", "2025-03-11", "09:00", "17:00", model.StatusRejected)
	outside := newBooking(t, "2025-04-01", "2025-04-01", "09:00", "11:00", model.StatusApproved)

	for _, booking := range []model.Booking{pending, approved, rejected, outside} {
		require.NoError(t, repo.Insert(ctx, booking))
	}

	t.Run("get round trips dates and equipment", func(t *testing.T) {
		got, err := repo.Get(ctx, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters:  []any{gDto.Filter{Field: model.FieldID, Value: approved.ID, Operator: gDto.FilterOperatorEq}},
		})
		require.NoError(t, err)

		assert.Equal(t, "2025-03-11", got.StartDate.Format(time.DateOnly))
		assert.Equal(t, "2025-03-12", got.EndDate.Format(time.DateOnly))
		assert.Equal(t, "13:00", got.StartTime)
		assert.Equal(t, model.Equipments{{Name: "Chairs", Quantity: 20}}, got.Equipment)
		assert.True(t, got.IsMultiDay())
	})

	t.Run("snapshot skips rejected bookings and other months", func(t *testing.T) {
		filter := dto.SnapshotFilter(day(t, "2025-03-10"), day(t, "2025-03-12"), model.StatusPending, model.StatusApproved)

		snapshot, err := repo.GetAll(ctx, gDto.QueryParams{}, filter)
		require.NoError(t, err)

		ids := make([]string, len(snapshot))
		for i, booking := range snapshot {
			ids[i] = booking.ID
		}

		assert.ElementsMatch(t, []string{pending.ID, approved.ID}, ids)

		proposal := conflict.Proposal{StartDate: day(t, "2025-03-10"), EndDate: day(t, "2025-03-12"), StartTime: "14:00", EndTime: "16:00"}
		err = conflict.ValidateRange(proposal, model.ToConflicts(snapshot), false, "")

		var scheduling *conflict.SchedulingConflictError
		require.ErrorAs(t, err, &scheduling)
		assert.Equal(t, "2025-03-11", scheduling.Day.Format(time.DateOnly))
	})

	t.Run("month filter includes bookings spilling into the month", func(t *testing.T) {
		spill := newBooking(t, "2025-02-27", "2025-03-02", "09:00", "10:00", model.StatusPending)
		require.NoError(t, repo.Insert(ctx, spill))

		got, err := repo.Count(ctx, dto.MonthFilter(day(t, "2025-03-01")))
		require.NoError(t, err)
		assert.Equal(t, 4, got)
	})

	t.Run("status update and delete", func(t *testing.T) {
		byID := gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters:  []any{gDto.Filter{Field: model.FieldID, Value: pending.ID, Operator: gDto.FilterOperatorEq}},
		}

		status := dto.UpdateStatusRequest{Status: model.StatusApproved, Remarks: "ok"}
		require.NoError(t, repo.Update(ctx, status.Fields("admin-1"), byID))

		got, err := repo.Get(ctx, byID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, got.Status)
		assert.Equal(t, "ok", got.Remarks)
		assert.Equal(t, "admin-1", got.ModifiedBy)

		require.NoError(t, repo.Delete(ctx, byID))

		exists, err := repo.Exist(ctx, byID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("schema rejects an end time before the start", func(t *testing.T) {
		invalid := newBooking(t, "2025-05-01", "2025-05-01", "12:00", "11:00", model.StatusPending)

		assert.Error(t, repo.Insert(ctx, invalid))
	})
}
