package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/imtarget05/Health-Tracker-App/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockedPush(t *testing.T) (*PushService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)

	return &PushService{db: gdb, log: slog.Default()}, mock
}

func TestSetNotificationsEnabledSkipsGatewayDisabled(t *testing.T) {
	p, mock := newMockedPush(t)

	// re-enabling must exclude endpoints the gateway reported dead
	mock.ExpectExec(`UPDATE "device_tokens" SET .+ WHERE user_id = \$\d+ AND disabled_reason <> \$\d+`).
		WithArgs(true, "", sqlmock.AnyArg(), 7, models.DisabledByGateway).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, p.SetNotificationsEnabled(context.Background(), 7, true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetNotificationsDisabledRecordsReason(t *testing.T) {
	p, mock := newMockedPush(t)

	mock.ExpectExec(`UPDATE "device_tokens" SET .+ WHERE user_id = \$\d+ AND active = \$\d+`).
		WithArgs(false, models.DisabledByUser, sqlmock.AnyArg(), 7, true).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, p.SetNotificationsEnabled(context.Background(), 7, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateDeviceUnknownID(t *testing.T) {
	p, mock := newMockedPush(t)

	mock.ExpectExec(`UPDATE "device_tokens" SET .+ WHERE id = \$\d+ AND user_id = \$\d+`).
		WithArgs(false, models.DisabledByUser, sqlmock.AnyArg(), 99, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := p.DeactivateDevice(context.Background(), 7, 99)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
