package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"wheelshare/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationRideRequested   NotificationType = "RIDE_REQUESTED"
	NotificationRideAccepted    NotificationType = "RIDE_ACCEPTED"
	NotificationRideCompleted   NotificationType = "RIDE_COMPLETED"
	NotificationRideCancelled   NotificationType = "RIDE_CANCELLED"
	NotificationPaymentRecorded NotificationType = "PAYMENT_RECORDED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real deployment this would hold push/SMS/email clients; here
	// delivery is a structured log line.
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyRideRequested acknowledges the ride request to the customer.
func (s *NotificationService) NotifyRideRequested(ctx context.Context, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationRideRequested,
		RecipientID: ride.CustomerID,
		Title:       "Ride Requested",
		Message:     fmt.Sprintf("Looking for a driver near %s", ride.SourceAddress),
		Data: map[string]interface{}{
			"ride_id":     ride.ID,
			"distance_km": ride.DistanceKm,
			"fare":        ride.Fare.String(),
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRideAccepted tells the customer a driver claimed the ride.
func (s *NotificationService) NotifyRideAccepted(ctx context.Context, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationRideAccepted,
		RecipientID: ride.CustomerID,
		Title:       "Driver On The Way",
		Message:     "A driver accepted your ride",
		Data: map[string]interface{}{
			"ride_id":   ride.ID,
			"driver_id": ride.DriverID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRideCompleted tells the customer and the driver the ride finished.
func (s *NotificationService) NotifyRideCompleted(ctx context.Context, ride *domain.Ride, earning decimal.Decimal) error {
	if err := s.send(ctx, Notification{
		Type:        NotificationRideCompleted,
		RecipientID: ride.CustomerID,
		Title:       "Ride Completed",
		Message:     fmt.Sprintf("Your ride to %s is complete", ride.DestinationAddress),
		Data: map[string]interface{}{
			"ride_id": ride.ID,
			"fare":    ride.Fare.String(),
		},
		CreatedAt: time.Now(),
	}); err != nil {
		return err
	}

	return s.send(ctx, Notification{
		Type:        NotificationRideCompleted,
		RecipientID: ride.DriverID,
		Title:       "Earning Credited",
		Message:     fmt.Sprintf("You earned %s for this ride", earning),
		Data: map[string]interface{}{
			"ride_id": ride.ID,
			"earning": earning.String(),
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRideCancelled tells the customer the cancellation went through.
func (s *NotificationService) NotifyRideCancelled(ctx context.Context, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationRideCancelled,
		RecipientID: ride.CustomerID,
		Title:       "Ride Cancelled",
		Message:     "Your ride request was cancelled",
		Data:        map[string]interface{}{"ride_id": ride.ID},
		CreatedAt:   time.Now(),
	})
}

// NotifyPaymentRecorded confirms the payment to the customer.
func (s *NotificationService) NotifyPaymentRecorded(ctx context.Context, payment *domain.Payment, customerID string) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentRecorded,
		RecipientID: customerID,
		Title:       "Payment Recorded",
		Message:     fmt.Sprintf("Payment of %s via %s is %s", payment.Amount, payment.Method, payment.Status),
		Data: map[string]interface{}{
			"payment_id": payment.ID,
			"ride_id":    payment.RideID,
			"status":     string(payment.Status),
		},
		CreatedAt: time.Now(),
	})
}

// send delivers a notification. Current implementation logs it.
func (s *NotificationService) send(ctx context.Context, n Notification) error {
	log.Printf("[NOTIFICATION] type=%s recipient=%s title=%q message=%q", n.Type, n.RecipientID, n.Title, n.Message)
	return nil
}
