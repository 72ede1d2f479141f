// Package reminders derives calendar reminders for document renewals. The
// package performs no I/O; delivery belongs to the notification sink.
package reminders

import (
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/steward/compliance"
)

// Reminder timing.
const (
	LeadTime    = 30 * 24 * time.Hour
	Duration    = time.Hour
	AlertBefore = 60 * time.Minute
)

// Importance is the calendar importance of a reminder.
type Importance string

// Importance levels.
const (
	ImportanceNormal Importance = "normal"
	ImportanceHigh   Importance = "high"
)

// Spec is a structured calendar reminder handed to the notification sink.
type Spec struct {
	Subject      string            `json:"subject"`
	Body         string            `json:"body"`
	DocumentType string            `json:"document_type"`
	BuildingName string            `json:"building_name"`
	Status       compliance.Status `json:"status"`
	DueDate      time.Time         `json:"due_date"`
	ScheduledFor time.Time         `json:"scheduled_for"`
	Duration     time.Duration     `json:"duration"`
	AlertBefore  time.Duration     `json:"alert_before"`
	Importance   Importance        `json:"importance"`
}

// End returns when the reminder's calendar slot finishes.
func (s Spec) End() time.Time {
	return s.ScheduledFor.Add(s.Duration)
}

// Generate builds the reminder for a document's next due date. Expired
// documents get an URGENT subject and high importance.
func Generate(documentType, buildingName string, nextDue time.Time, status compliance.Status) Spec {
	expired := status == compliance.StatusExpired

	subject := fmt.Sprintf("Compliance Renewal: %s - %s", label(documentType), label(buildingName))
	importance := ImportanceNormal
	if expired {
		subject = "URGENT: " + subject
		importance = ImportanceHigh
	}

	return Spec{
		Subject:      subject,
		Body:         body(documentType, buildingName, nextDue, status),
		DocumentType: documentType,
		BuildingName: buildingName,
		Status:       status,
		DueDate:      nextDue,
		ScheduledFor: nextDue.Add(-LeadTime),
		Duration:     Duration,
		AlertBefore:  AlertBefore,
		Importance:   importance,
	}
}

func body(documentType, buildingName string, nextDue time.Time, status compliance.Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\n", label(documentType))
	fmt.Fprintf(&b, "Building: %s\n", label(buildingName))
	fmt.Fprintf(&b, "Due date: %s\n", nextDue.Format("2 January 2006"))
	fmt.Fprintf(&b, "Current status: %s\n\n", strings.ReplaceAll(string(status), "_", " "))

	if status == compliance.StatusExpired {
		b.WriteString("This document has expired. Arrange a renewal inspection immediately and record the new certificate.")
	} else {
		b.WriteString("Arrange the renewal inspection before the due date and record the new certificate.")
	}
	return b.String()
}

func label(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "Unknown"
	}
	return s
}
