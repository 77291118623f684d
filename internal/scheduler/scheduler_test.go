package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hxtubes/hxreport/internal/config"
	"github.com/hxtubes/hxreport/internal/domain/models"
	"github.com/hxtubes/hxreport/pkg/clients/whatsapp"
)

var day = models.NewDate(2026, time.January, 5)

type mockBuilder struct{ mock.Mock }

func (m *mockBuilder) Yesterday() models.Date { return day }

func (m *mockBuilder) DailyReport(ctx context.Context, ref models.Date, f models.Filter) (models.DailyReport, error) {
	args := m.Called(ctx, ref, f)
	return args.Get(0).(models.DailyReport), args.Error(1)
}

type mockArchive struct{ mock.Mock }

func (m *mockArchive) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	return m.Called(ctx, report).Error(0)
}

type mockMessenger struct{ mock.Mock }

func (m *mockMessenger) SendTextMessage(ctx context.Context, req whatsapp.SendTextMessageRequest) (*whatsapp.SendTextMessageResponse, error) {
	args := m.Called(ctx, req)
	return &whatsapp.SendTextMessageResponse{}, args.Error(0)
}

func TestRunDaily_ArchivesAndSends(t *testing.T) {
	report := models.DailyReport{Date: day}

	builder := new(mockBuilder)
	builder.On("DailyReport", mock.Anything, day, models.Filter{}).Return(report, nil)
	archive := new(mockArchive)
	archive.On("SaveDailyReport", mock.Anything, report).Return(nil)
	messenger := new(mockMessenger)
	messenger.On("SendTextMessage", mock.Anything, mock.MatchedBy(func(req whatsapp.SendTextMessageRequest) bool {
		return req.To == "5511" && req.Body != ""
	})).Return(nil)

	s := NewScheduler(config.ReportingConfig{CronSchedule: "0 7 * * *"}, time.UTC, builder, archive, messenger, "5511", nil)

	require.NoError(t, s.RunDaily(context.Background()))
	builder.AssertExpectations(t)
	archive.AssertExpectations(t)
	messenger.AssertExpectations(t)
}

func TestRunDaily_OptionalSteps(t *testing.T) {
	builder := new(mockBuilder)
	builder.On("DailyReport", mock.Anything, day, models.Filter{}).Return(models.DailyReport{Date: day}, nil)

	s := NewScheduler(config.ReportingConfig{}, nil, builder, nil, nil, "", nil)

	assert.NoError(t, s.RunDaily(context.Background()))
}

func TestRunDaily_Failures(t *testing.T) {
	failing := new(mockBuilder)
	failing.On("DailyReport", mock.Anything, day, models.Filter{}).Return(models.DailyReport{}, assert.AnError)

	err := NewScheduler(config.ReportingConfig{}, nil, failing, nil, nil, "", nil).RunDaily(context.Background())
	assert.ErrorIs(t, err, assert.AnError)

	builder := new(mockBuilder)
	builder.On("DailyReport", mock.Anything, day, models.Filter{}).Return(models.DailyReport{Date: day}, nil)
	archive := new(mockArchive)
	archive.On("SaveDailyReport", mock.Anything, mock.Anything).Return(assert.AnError)
	messenger := new(mockMessenger)
	messenger.On("SendTextMessage", mock.Anything, mock.Anything).Return(nil)

	err = NewScheduler(config.ReportingConfig{}, nil, builder, archive, messenger, "5511", nil).RunDaily(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	messenger.AssertNumberOfCalls(t, "SendTextMessage", 1)
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := NewScheduler(config.ReportingConfig{CronSchedule: "every day"}, time.UTC, new(mockBuilder), nil, nil, "", nil)

	assert.Error(t, s.Start())
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(config.ReportingConfig{CronSchedule: "0 7 * * *"}, time.UTC, new(mockBuilder), nil, nil, "", nil)

	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
