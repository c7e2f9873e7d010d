package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"carelink-server/internal/config"
	"carelink-server/internal/models"
)

type fakeSender struct {
	calls int
	err   error
}

func (f *fakeSender) Send(ctx context.Context, recipient models.User, subject, body string) error {
	f.calls++
	return f.err
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func expectInsert(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `notifications`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
}

func expectRecipient(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).
			AddRow("user-1", "patient@example.com"))
}

func testNotification() *models.Notification {
	return &models.Notification{
		RecipientID: "user-1",
		Type:        models.NotificationReschedule,
		Message:     "Your appointment has been rescheduled.",
		Channel:     "email",
	}
}

func TestDispatchDeliversAndRecordsSentAt(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db, config.NotifyConfig{DefaultChannel: "email"}, nil)
	sender := &fakeSender{}
	svc.RegisterSender("email", sender)

	expectInsert(mock)
	expectRecipient(mock)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `notifications` SET `sent_at`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n := testNotification()
	require.NoError(t, svc.Dispatch(context.Background(), n))

	assert.Equal(t, 1, sender.calls)
	assert.NotNil(t, n.SentAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatchSwallowsDeliveryFailure(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db, config.NotifyConfig{DefaultChannel: "email"}, nil)
	sender := &fakeSender{err: errors.New("smtp down")}
	svc.RegisterSender("email", sender)

	expectInsert(mock)
	expectRecipient(mock)
	// No sent_at update after a failed delivery.

	n := testNotification()
	require.NoError(t, svc.Dispatch(context.Background(), n),
		"delivery failure must not surface to the caller")

	assert.Equal(t, 1, sender.calls)
	assert.Nil(t, n.SentAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatchUnknownChannelStoresUndelivered(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db, config.NotifyConfig{DefaultChannel: "email"}, nil)

	expectInsert(mock)

	n := testNotification()
	n.Channel = "carrier-pigeon"
	require.NoError(t, svc.Dispatch(context.Background(), n))

	assert.Nil(t, n.SentAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatchDefaultsChannelFromConfig(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db, config.NotifyConfig{DefaultChannel: "log"}, nil)
	sender := &fakeSender{}
	svc.RegisterSender("log", sender)

	expectInsert(mock)
	expectRecipient(mock)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `notifications` SET `sent_at`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n := testNotification()
	n.Channel = ""
	require.NoError(t, svc.Dispatch(context.Background(), n))

	assert.Equal(t, "log", n.Channel)
	assert.Equal(t, 1, sender.calls)
}

func TestDispatchStoreFailureIsReturned(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db, config.NotifyConfig{DefaultChannel: "email"}, nil)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `notifications`").
		WillReturnError(errors.New("table gone"))
	mock.ExpectRollback()

	err := svc.Dispatch(context.Background(), testNotification())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store notification")
}
