package service

import (
	"context"
	"fmt"
	"time"

	"gearguard-backend/internal/database/models"
	apperrors "gearguard-backend/internal/errors"
	"gearguard-backend/internal/logger"
	"gearguard-backend/internal/maintenance"
	"gearguard-backend/internal/metrics"
	"gearguard-backend/internal/notify"
	"gearguard-backend/internal/repository"

	"github.com/google/uuid"
)

// WarrantyAlertService sends warranty alert notifications for selected equipment
type WarrantyAlertService struct {
	equipmentRepo     repository.EquipmentRepositoryInterface
	messageRepo       repository.MessageRepositoryInterface
	templates         *notify.Registry
	notifier          notify.Notifier
	clock             maintenance.Clock
	metrics           *metrics.Metrics
	warrantyAlertDays int
}

// Ensure WarrantyAlertService implements WarrantyAlertServiceInterface
var _ WarrantyAlertServiceInterface = (*WarrantyAlertService)(nil)

// NewWarrantyAlertService creates a new warranty alert service
func NewWarrantyAlertService(
	equipmentRepo repository.EquipmentRepositoryInterface,
	messageRepo repository.MessageRepositoryInterface,
	templates *notify.Registry,
	notifier notify.Notifier,
	clock maintenance.Clock,
	m *metrics.Metrics,
	warrantyAlertDays int,
) *WarrantyAlertService {
	if warrantyAlertDays <= 0 {
		warrantyAlertDays = maintenance.DefaultWarrantyAlertDays
	}
	return &WarrantyAlertService{
		equipmentRepo:     equipmentRepo,
		messageRepo:       messageRepo,
		templates:         templates,
		notifier:          notifier,
		clock:             clock,
		metrics:           m,
		warrantyAlertDays: warrantyAlertDays,
	}
}

// WarrantyAlertRequest selects the equipment to alert on and the template to use
type WarrantyAlertRequest struct {
	EquipmentIDs []uuid.UUID `json:"equipment_ids"`
	TemplateID   string      `json:"template_id,omitempty" example:"warranty_alert"`
}

// WarrantyAlertResponse reports how many pieces of equipment were processed
type WarrantyAlertResponse struct {
	Processed int `json:"processed"`
}

// Send renders the template for each selected piece of equipment, posts an
// audit message on it and publishes a notification
func (s *WarrantyAlertService) Send(ctx context.Context, actor *uuid.UUID, req *WarrantyAlertRequest) (*WarrantyAlertResponse, error) {
	templateID, err := s.checkRequest(req)
	if err != nil {
		return nil, err
	}

	ids := uniqueIDs(req.EquipmentIDs)
	equipment := make([]*models.Equipment, 0, len(ids))
	rendered := make([]*notify.Message, 0, len(ids))
	messages := make([]*models.EquipmentMessage, 0, len(ids))
	for _, id := range ids {
		eq, msg, err := s.render(id, templateID)
		if err != nil {
			return nil, err
		}
		equipment = append(equipment, eq)
		rendered = append(rendered, msg)
		messages = append(messages, &models.EquipmentMessage{
			EquipmentID: eq.ID,
			Kind:        models.MessageKindWarrantyAlert,
			Body:        msg.Body,
			AuthorID:    actor,
		})
	}

	if err := s.messageRepo.Create(messages...); err != nil {
		return nil, fmt.Errorf("failed to post warranty alert messages: %w", err)
	}

	now := time.Now().UTC()
	for i, eq := range equipment {
		n := notify.Notification{
			Kind:        notify.KindWarrantyAlert,
			EquipmentID: &equipment[i].ID,
			Subject:     rendered[i].Subject,
			Body:        rendered[i].Body,
			SentAt:      now,
		}
		if eq.Technician != nil {
			n.RecipientID = &eq.Technician.ID
			n.RecipientEmail = eq.Technician.Email
		}
		if err := s.notifier.Notify(ctx, n); err != nil {
			logger.WithContext(ctx).WithError(err).WithField("equipment_id", eq.ID).Warn("failed to publish warranty alert")
			continue
		}
		s.metrics.NotificationSent(string(notify.KindWarrantyAlert))
	}

	logger.WithContext(ctx).WithField("processed", len(equipment)).Info("warranty alerts sent")
	return &WarrantyAlertResponse{Processed: len(equipment)}, nil
}

// Preview renders the template for the first selected piece of equipment
func (s *WarrantyAlertService) Preview(req *WarrantyAlertRequest) (*notify.Message, error) {
	templateID, err := s.checkRequest(req)
	if err != nil {
		return nil, err
	}
	_, msg, err := s.render(req.EquipmentIDs[0], templateID)
	return msg, err
}

func (s *WarrantyAlertService) checkRequest(req *WarrantyAlertRequest) (string, error) {
	if len(req.EquipmentIDs) == 0 {
		return "", apperrors.ErrEmptyEquipmentSelection
	}
	templateID := req.TemplateID
	if templateID == "" {
		templateID = notify.TemplateWarrantyAlert
	}
	if !s.templates.Has(templateID) {
		return "", apperrors.ErrTemplateNotFound
	}
	return templateID, nil
}

func (s *WarrantyAlertService) render(id uuid.UUID, templateID string) (*models.Equipment, *notify.Message, error) {
	eq, err := s.equipmentRepo.GetByID(id)
	if err != nil {
		return nil, nil, mapNotFound(err, apperrors.ErrEquipmentNotFound, "get equipment")
	}
	maintenance.ApplyWarranty(eq, s.clock.Today(), s.warrantyAlertDays)

	msg, err := s.templates.Render(templateID, notify.WarrantyAlertData{
		Equipment:    eq.DisplayName(),
		WarrantyDate: formatDate(eq.WarrantyDate),
		DaysToEnd:    eq.DaysToWarrantyEnd,
		State:        string(eq.WarrantyState),
	})
	if err != nil {
		return nil, nil, err
	}
	return eq, msg, nil
}
