package consultation

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medbrief/telemed-api/internal/audit"
	domain "github.com/medbrief/telemed-api/internal/domain/scheduling"
	"github.com/medbrief/telemed-api/internal/httperr"
	"github.com/medbrief/telemed-api/internal/models"
	"github.com/medbrief/telemed-api/internal/summarize"
	"github.com/medbrief/telemed-api/internal/timezone"
)

// ======================================================
// COLLABORATOR CONTRACTS
// ======================================================

type ObjectStore interface {
	UploadAudio(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (*summarize.Result, error)
}

// ======================================================
// USE CASE
// ======================================================

// AttachConsultation runs the doctor-side recording pipeline: store the
// audio, transcribe it, summarize the transcript, then complete the
// appointment with the clinical record attached.
type AttachConsultation struct {
	repo        domain.Repository
	store       ObjectStore
	transcriber Transcriber
	summarizer  Summarizer
	audit       audit.Recorder
	log         *zap.Logger
}

func NewAttachConsultation(
	repo domain.Repository,
	store ObjectStore,
	transcriber Transcriber,
	summarizer Summarizer,
	audit audit.Recorder,
	log *zap.Logger,
) *AttachConsultation {
	return &AttachConsultation{
		repo:        repo,
		store:       store,
		transcriber: transcriber,
		summarizer:  summarizer,
		audit:       audit,
		log:         log,
	}
}

func (uc *AttachConsultation) Execute(
	ctx context.Context,
	doctorID uint,
	appointmentID uint,
	audio io.Reader,
	contentType string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForDoctor(ctx, appointmentID, doctorID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	// Only approved appointments can be completed; reject before the
	// expensive upload/transcribe work.
	if domain.Status(ap.Status) != domain.StatusApproved {
		return nil, domain.ErrInvalidTransition
	}

	key := fmt.Sprintf("appointments/%d/audio/%s", ap.ID, uuid.NewString())
	audioURL, err := uc.store.UploadAudio(ctx, key, audio, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload consultation audio: %w", err)
	}

	transcript, err := uc.transcriber.Transcribe(ctx, audioURL)
	if err != nil {
		return nil, fmt.Errorf("transcribe consultation: %w", err)
	}

	result, err := uc.summarizer.Summarize(ctx, transcript)
	if err != nil {
		return nil, fmt.Errorf("summarize consultation: %w", err)
	}

	doctor, err := uc.repo.GetDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(doctor.Timezone)
	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}

	ap.AudioURL = audioURL
	ap.Transcription = transcript
	ap.Summary = result.Summary

	prescriptions := make([]models.Prescription, 0, len(result.Medicines))
	for _, m := range result.Medicines {
		p := m.ToPrescription()
		p.AppointmentID = ap.ID
		prescriptions = append(prescriptions, p)
	}
	ap.Prescriptions = prescriptions

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.log.Info("consultation attached",
		zap.Uint("appointment_id", ap.ID),
		zap.Int("prescriptions", len(prescriptions)),
	)

	uc.audit.Dispatch(audit.Event{
		UserID:   &doctorID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
