package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"gearguard-backend/internal/api/handlers"
	apperrors "gearguard-backend/internal/errors"
	"gearguard-backend/internal/mocks"
	"gearguard-backend/internal/notify"
	"gearguard-backend/internal/service"
	"gearguard-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newWarrantyAlertRouter(t *testing.T, actor uuid.UUID) (*testutils.HTTPTestSuite, *mocks.MockWarrantyAlertServiceInterface) {
	ctrl := gomock.NewController(t)
	mockAlertSvc := mocks.NewMockWarrantyAlertServiceInterface(ctrl)
	handler := handlers.NewWarrantyAlertHandler(mockAlertSvc)

	h := testutils.SetupHTTPTest(&actor)
	h.Router.POST("/equipment/warranty-alerts", handler.SendAlerts)
	h.Router.POST("/equipment/warranty-alerts/preview", handler.PreviewAlert)
	return h, mockAlertSvc
}

func TestWarrantyAlertHandler_SendAlerts(t *testing.T) {
	actor := uuid.New()
	h, m := newWarrantyAlertRouter(t, actor)
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	m.EXPECT().
		Send(gomock.Any(), &actor, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *uuid.UUID, req *service.WarrantyAlertRequest) (*service.WarrantyAlertResponse, error) {
			assert.Equal(t, ids, req.EquipmentIDs)
			assert.Equal(t, "warranty_alert", req.TemplateID)
			return &service.WarrantyAlertResponse{Processed: 2}, nil
		})

	w := h.MakeRequest(http.MethodPost, "/equipment/warranty-alerts", map[string]interface{}{
		"equipment_ids": ids,
		"template_id":   "warranty_alert",
	})

	var got service.WarrantyAlertResponse
	testutils.AssertJSONResponse(t, w, http.StatusOK, &got)
	assert.Equal(t, 2, got.Processed)
}

func TestWarrantyAlertHandler_SendAlerts_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"empty selection", apperrors.ErrEmptyEquipmentSelection, http.StatusBadRequest, "Please select at least one equipment."},
		{"unknown template", apperrors.ErrTemplateNotFound, http.StatusNotFound, "notification template not found"},
		{"unknown equipment", apperrors.ErrEquipmentNotFound, http.StatusNotFound, "equipment not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newWarrantyAlertRouter(t, uuid.New())
			m.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tt.err)

			w := h.MakeRequest(http.MethodPost, "/equipment/warranty-alerts", map[string]interface{}{"equipment_ids": []string{}})

			testutils.AssertErrorResponse(t, w, tt.status, tt.msg)
		})
	}
}

func TestWarrantyAlertHandler_PreviewAlert(t *testing.T) {
	h, m := newWarrantyAlertRouter(t, uuid.New())
	m.EXPECT().Preview(gomock.Any()).Return(&notify.Message{
		Subject: "Warranty alert: Printer [SN-9]",
		Body:    "The warranty ends on 2025-06-25 (10 days left).",
	}, nil)

	w := h.MakeRequest(http.MethodPost, "/equipment/warranty-alerts/preview", map[string]interface{}{
		"equipment_ids": []string{uuid.NewString()},
	})

	var got notify.Message
	testutils.AssertJSONResponse(t, w, http.StatusOK, &got)
	assert.Equal(t, "Warranty alert: Printer [SN-9]", got.Subject)
	require.Contains(t, got.Body, "10 days left")
}
