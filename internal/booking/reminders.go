package booking

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/clinickit/dental-booking/internal/directory"
	"github.com/clinickit/dental-booking/internal/notify"
)

// ReminderSender delivers a single appointment reminder, best effort.
type ReminderSender interface {
	Reminder(ctx context.Context, n notify.BookingNotice) bool
}

// ReminderService sends day-before reminders for confirmed appointments.
// Intended to be driven periodically by the reminder worker. Sent ids are
// tracked in process memory, so a worker restart may repeat a reminder; that
// is acceptable for a courtesy message.
type ReminderService struct {
	store     AppointmentStore
	directory directory.Store
	sender    ReminderSender

	mu   sync.Mutex
	sent map[uuid.UUID]bool
}

func NewReminderService(store AppointmentStore, dir directory.Store, sender ReminderSender) *ReminderService {
	return &ReminderService{
		store:     store,
		directory: dir,
		sender:    sender,
		sent:      make(map[uuid.UUID]bool),
	}
}

// SendForDate dispatches a reminder for every not-yet-reminded confirmed
// appointment on the given date. Channel failures are logged and the
// appointment stays eligible for the next run.
func (s *ReminderService) SendForDate(ctx context.Context, date string) error {
	appts, err := s.store.ListByDate(ctx, date)
	if err != nil {
		return fmt.Errorf("list appointments for %s: %w", date, err)
	}

	for _, appt := range appts {
		if appt.Status != StatusConfirmed {
			continue
		}

		s.mu.Lock()
		already := s.sent[appt.ID]
		s.mu.Unlock()
		if already {
			continue
		}

		notice := notify.BookingNotice{
			PatientName:  appt.PatientName,
			PatientPhone: appt.PatientPhone,
			Service:      appt.Service,
			Date:         appt.Date,
			Time:         appt.Time,
		}
		if clinic, err := s.directory.GetClinic(ctx, appt.ClinicID); err == nil {
			notice.ClinicName = clinic.Name
		}
		if doctor, err := s.directory.GetDoctor(ctx, appt.DoctorID); err == nil {
			notice.DoctorName = doctor.Name
		}

		if s.sender.Reminder(ctx, notice) {
			s.mu.Lock()
			s.sent[appt.ID] = true
			s.mu.Unlock()
		} else {
			log.Printf("reminder for appointment %s not sent, will retry next run", appt.ID)
		}
	}

	return nil
}
