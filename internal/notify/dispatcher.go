package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// BookingNotice carries everything the channels need to announce a confirmed
// booking. PatientEmail may be empty; ClinicEmail may be empty when the
// clinic has no inbox configured.
type BookingNotice struct {
	ClinicName   string
	ClinicEmail  string
	PatientName  string
	PatientPhone string
	PatientEmail string
	DoctorName   string
	Service      string
	Date         string
	Time         string
}

// Result aggregates the per-channel outcomes. EmailSent is true if either
// the clinic or the patient email went through.
type Result struct {
	MessagingSent bool
	EmailSent     bool
}

const defaultChannelTimeout = 5 * time.Second

// Dispatcher fans a confirmed booking out to the configured channels
// concurrently. Notifications sit outside the booking's consistency
// boundary: every channel catches its own failure, logs it, and reports
// false. A nil sender is an unconfigured channel and a silent no-op, so a
// clinic with zero channels still accepts bookings.
type Dispatcher struct {
	messaging MessageSender
	email     EmailSender
	timeout   time.Duration
}

func NewDispatcher(messaging MessageSender, email EmailSender, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultChannelTimeout
	}
	return &Dispatcher{
		messaging: messaging,
		email:     email,
		timeout:   timeout,
	}
}

// Dispatch issues the patient WhatsApp message, the clinic-facing email, and
// the patient-facing email concurrently, each under its own bounded timeout,
// and joins all three before returning.
func (d *Dispatcher) Dispatch(ctx context.Context, n BookingNotice) Result {
	var (
		wg            sync.WaitGroup
		messagingSent bool
		clinicSent    bool
		patientSent   bool
	)

	if d.messaging != nil && n.PatientPhone != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			messagingSent = d.sendWhatsApp(ctx, n)
		}()
	}

	if d.email != nil && n.ClinicEmail != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clinicSent = d.sendEmail(ctx, clinicEmail(n))
		}()
	}

	if d.email != nil && n.PatientEmail != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			patientSent = d.sendEmail(ctx, patientEmail(n))
		}()
	}

	wg.Wait()

	return Result{
		MessagingSent: messagingSent,
		EmailSent:     clinicSent || patientSent,
	}
}

// Reminder sends a day-before WhatsApp reminder for a confirmed
// appointment. Email channels are not used for reminders. Returns whether
// the message went out.
func (d *Dispatcher) Reminder(ctx context.Context, n BookingNotice) bool {
	if d.messaging == nil || n.PatientPhone == "" {
		return false
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	body := fmt.Sprintf(
		"Hi %s! A reminder from %s: %s with Dr. %s tomorrow, %s at %s.",
		n.PatientName, n.ClinicName, n.Service, n.DoctorName, n.Date, n.Time,
	)

	sid, err := d.messaging.Send(sendCtx, n.PatientPhone, body)
	if err != nil {
		log.Printf("notify: reminder to %s failed: %v", n.PatientPhone, err)
		return false
	}
	log.Printf("notify: reminder sent to %s sid=%s", n.PatientPhone, sid)
	return true
}

func (d *Dispatcher) sendWhatsApp(ctx context.Context, n BookingNotice) bool {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	body := fmt.Sprintf(
		"Hi %s! Your appointment at %s is confirmed.\n%s with Dr. %s on %s at %s.\nSee you then!",
		n.PatientName, n.ClinicName, n.Service, n.DoctorName, n.Date, n.Time,
	)

	sid, err := d.messaging.Send(sendCtx, n.PatientPhone, body)
	if err != nil {
		log.Printf("notify: whatsapp send to %s failed: %v", n.PatientPhone, err)
		return false
	}
	log.Printf("notify: whatsapp sent to %s sid=%s", n.PatientPhone, sid)
	return true
}

func (d *Dispatcher) sendEmail(ctx context.Context, msg EmailMessage) bool {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	id, err := d.email.Send(sendCtx, msg)
	if err != nil {
		log.Printf("notify: email send to %s failed: %v", msg.To, err)
		return false
	}
	log.Printf("notify: email sent to %s id=%s", msg.To, id)
	return true
}

func clinicEmail(n BookingNotice) EmailMessage {
	return EmailMessage{
		To:      n.ClinicEmail,
		ToName:  n.ClinicName,
		Subject: fmt.Sprintf("New booking: %s on %s at %s", n.PatientName, n.Date, n.Time),
		Body: fmt.Sprintf(
			"A new appointment has been booked.\n\nPatient: %s\nPhone: %s\nDoctor: %s\nService: %s\nWhen: %s at %s\n",
			n.PatientName, n.PatientPhone, n.DoctorName, n.Service, n.Date, n.Time,
		),
	}
}

func patientEmail(n BookingNotice) EmailMessage {
	return EmailMessage{
		To:      n.PatientEmail,
		ToName:  n.PatientName,
		Subject: fmt.Sprintf("Your appointment at %s is confirmed", n.ClinicName),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour appointment is confirmed.\n\nClinic: %s\nDoctor: %s\nService: %s\nWhen: %s at %s\n\nSee you then!\n",
			n.PatientName, n.ClinicName, n.DoctorName, n.Service, n.Date, n.Time,
		),
		HTML: fmt.Sprintf(
			`<div style="font-family: sans-serif; max-width: 600px;">
<h2>Appointment confirmed</h2>
<p>Hi %s, your appointment at <strong>%s</strong> is confirmed.</p>
<table style="border-collapse: collapse;">
  <tr><td style="padding: 6px;"><strong>Doctor:</strong></td><td style="padding: 6px;">%s</td></tr>
  <tr><td style="padding: 6px;"><strong>Service:</strong></td><td style="padding: 6px;">%s</td></tr>
  <tr><td style="padding: 6px;"><strong>When:</strong></td><td style="padding: 6px;">%s at %s</td></tr>
</table>
</div>`,
			n.PatientName, n.ClinicName, n.DoctorName, n.Service, n.Date, n.Time,
		),
	}
}
