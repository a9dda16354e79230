package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvance(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		event   Event
		want    Status
		wantErr bool
	}{
		{name: "pending stages", current: StatusPending, event: EventStage, want: StatusStaged},
		{name: "pending skips", current: StatusPending, event: EventSkip, want: StatusSkipped},
		{name: "pending fails", current: StatusPending, event: EventFail, want: StatusFailed},
		{name: "staged converts", current: StatusStaged, event: EventConvert, want: StatusConverted},
		{name: "staged skips", current: StatusStaged, event: EventSkip, want: StatusSkipped},
		{name: "staged fails", current: StatusStaged, event: EventFail, want: StatusFailed},
		{name: "converted uploads", current: StatusConverted, event: EventUpload, want: StatusUploaded},
		{name: "converted fails", current: StatusConverted, event: EventFail, want: StatusFailed},
		{name: "uploaded cleans", current: StatusUploaded, event: EventCleanup, want: StatusCleaned},

		{name: "pending cannot convert", current: StatusPending, event: EventConvert, wantErr: true},
		{name: "pending cannot upload", current: StatusPending, event: EventUpload, wantErr: true},
		{name: "staged cannot upload", current: StatusStaged, event: EventUpload, wantErr: true},
		{name: "converted cannot skip", current: StatusConverted, event: EventSkip, wantErr: true},
		{name: "uploaded cannot fail", current: StatusUploaded, event: EventFail, wantErr: true},
		{name: "uploaded cannot skip", current: StatusUploaded, event: EventSkip, wantErr: true},
		{name: "cleaned is terminal", current: StatusCleaned, event: EventStage, wantErr: true},
		{name: "skipped is terminal", current: StatusSkipped, event: EventStage, wantErr: true},
		{name: "failed is terminal", current: StatusFailed, event: EventStage, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := advance(tt.current, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid transition")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewCandidate(t *testing.T) {
	cand, err := NewCandidate("FA150518.TXT")
	require.NoError(t, err)

	assert.Equal(t, "FA150518.TXT", cand.RawName)
	assert.Equal(t, "FACE_AUTO_RA_NEUTRON_R_20180515.txt", cand.CanonicalName)
	assert.Equal(t, "FACE_AUTO_RA_NEUTRON_L1_20180515.csv", cand.DerivedName)
	assert.Equal(t, "2018-05-15 00:00:00", cand.Window.Start)
	assert.Equal(t, "2018-05-15 23:59:59", cand.Window.End)
	assert.Equal(t, StatusPending, cand.Status)
	assert.False(t, cand.Terminal())
}

func TestNewCandidateRejectsMalformedName(t *testing.T) {
	_, err := NewCandidate("soil_readings.csv")
	require.Error(t, err)
}

func TestCandidateApplyWalksHappyPath(t *testing.T) {
	cand, err := NewCandidate("FA010216.TXT")
	require.NoError(t, err)

	for _, event := range []Event{EventStage, EventConvert, EventUpload, EventCleanup} {
		require.NoError(t, cand.Apply(event))
	}

	assert.Equal(t, StatusCleaned, cand.Status)
	assert.True(t, cand.Terminal())
	assert.NoError(t, cand.Err)
}

func TestCandidateApplyRejectsInvalidEvent(t *testing.T) {
	cand, err := NewCandidate("FA010216.TXT")
	require.NoError(t, err)

	err = cand.Apply(EventUpload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FA010216.TXT")
	assert.Equal(t, StatusPending, cand.Status, "failed transition must not move the status")
}

func TestCandidateSkip(t *testing.T) {
	cand, err := NewCandidate("FA010216.TXT")
	require.NoError(t, err)

	reason := errors.New("file already staged")
	require.NoError(t, cand.Skip(reason))

	assert.Equal(t, StatusSkipped, cand.Status)
	assert.Equal(t, reason, cand.Err)
	assert.True(t, cand.Terminal())
}

func TestCandidateFail(t *testing.T) {
	cand, err := NewCandidate("FA010216.TXT")
	require.NoError(t, err)
	require.NoError(t, cand.Apply(EventStage))

	cause := errors.New("conversion exploded")
	require.NoError(t, cand.Fail(cause))

	assert.Equal(t, StatusFailed, cand.Status)
	assert.Equal(t, cause, cand.Err)
	assert.True(t, cand.Terminal())
}

func TestTerminal(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPending, false},
		{StatusStaged, false},
		{StatusConverted, false},
		{StatusUploaded, false},
		{StatusCleaned, true},
		{StatusSkipped, true},
		{StatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			cand := &Candidate{Status: tt.status}
			assert.Equal(t, tt.want, cand.Terminal())
		})
	}
}
