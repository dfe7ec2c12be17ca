package notification

import "github.com/homepro/homepro-api/internal/domain/booking"

// Message is the user-facing wording for a booking status.
type Message struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// StatusMessage maps a booking status to its notification wording. The text
// branches on whether the recipient sees the booking as its provider or as
// its customer. An unknown or missing status gets the pending wording, so a
// partial event still produces a sensible notification.
func StatusMessage(status booking.Status, isProvider bool) Message {
	switch status {
	case booking.StatusConfirmed:
		if isProvider {
			return Message{Title: "Booking Confirmed", Description: "You have confirmed a booking."}
		}
		return Message{Title: "Booking Confirmed", Description: "Great news! Your booking has been confirmed."}
	case booking.StatusInProgress:
		if isProvider {
			return Message{Title: "Service In Progress", Description: "The service has started."}
		}
		return Message{Title: "Service In Progress", Description: "Your service is now in progress."}
	case booking.StatusCompleted:
		if isProvider {
			return Message{Title: "Service Completed", Description: "You have completed a service."}
		}
		return Message{Title: "Service Completed", Description: "Your service has been completed. Please leave a review!"}
	case booking.StatusCancelled:
		if isProvider {
			return Message{Title: "Booking Cancelled", Description: "A booking has been cancelled."}
		}
		return Message{Title: "Booking Cancelled", Description: "Your booking has been cancelled."}
	case booking.StatusDisputed:
		return Message{Title: "Dispute Raised", Description: "A dispute has been raised for this booking."}
	case booking.StatusPending:
		fallthrough
	default:
		if isProvider {
			return Message{Title: "New Booking Request", Description: "You have a new booking request to review."}
		}
		return Message{Title: "Booking Submitted", Description: "Your booking has been submitted successfully."}
	}
}
