package backup

import (
	"time"

	"walletcore/internal/domain"
)

// Step is one milestone of the security backup, in the order users take them.
type Step int

const (
	StepEmailAndPassword Step = iota
	StepRecoveryCode
	StepEmergencyKit
)

var stepNames = [...]string{"email_and_password", "recovery_code", "emergency_kit"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

// StepStatus reports whether a step is done and when.
type StepStatus struct {
	Step        Step
	Done        bool
	CompletedAt *time.Time
}

// Progress is the backup progress derived from the stored milestones.
type Progress struct {
	Steps []StepStatus
	// NextStep is the first step not done; meaningless when Complete.
	NextStep Step
	Started  bool
	Complete bool
	// KitExported is true once a verified kit export was recorded.
	KitExported bool
}

// Fraction returns the share of steps done, between 0 and 1.
func (p Progress) Fraction() float64 {
	if len(p.Steps) == 0 {
		return 0
	}
	done := 0
	for _, s := range p.Steps {
		if s.Done {
			done++
		}
	}
	return float64(done) / float64(len(p.Steps))
}

// Compute derives progress from st.
func Compute(st domain.BackupState) Progress {
	steps := []StepStatus{
		{Step: StepEmailAndPassword, CompletedAt: st.PasswordSetupDate},
		{Step: StepRecoveryCode, CompletedAt: st.RecoveryCodeSetupDate},
		{Step: StepEmergencyKit, CompletedAt: st.EmergencyKitExportedAt},
	}

	p := Progress{Steps: steps, Complete: true}
	for i := range steps {
		steps[i].Done = steps[i].CompletedAt != nil
		if steps[i].Done {
			p.Started = true
			continue
		}
		if p.Complete {
			p.NextStep = steps[i].Step
			p.Complete = false
		}
	}
	p.KitExported = st.EmergencyKitExportedAt != nil
	return p
}

// Service reads backup progress from a store.
type Service struct {
	store domain.BackupStateStore
}

// New returns a progress service backed by s.
func New(s domain.BackupStateStore) *Service { return &Service{store: s} }

// Progress loads the stored milestones and computes progress.
func (s *Service) Progress() (Progress, error) {
	st, err := s.store.LoadBackupState()
	if err != nil {
		return Progress{}, err
	}
	return Compute(st), nil
}
