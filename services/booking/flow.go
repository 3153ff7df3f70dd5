package booking

import (
	"context"
	"fmt"

	"astraguru/models"

	"github.com/google/uuid"
)

var stageRank = map[models.BookingStage]int{
	models.StageBrowsing:             0,
	models.StageGuruSelected:         1,
	models.StageConsultationSelected: 2,
	models.StageDateSelected:         3,
	models.StageSlotSelected:         4,
	models.StageConfirming:           5,
	models.StageBooked:               6,
}

// reachedStage reports whether the flow has progressed at least to want
// without having entered a terminal or in-flight stage.
func reachedStage(flow *models.BookingFlow, want models.BookingStage) bool {
	rank := stageRank[flow.Stage]
	return rank >= stageRank[want] && rank < stageRank[models.StageConfirming]
}

// StartFlow opens a fresh booking flow for the user.
func (s *DefaultBookingFlowService) StartFlow(ctx context.Context, userID string) (*models.BookingFlow, error) {
	flow := models.BookingFlow{
		FlowID: uuid.New().String(),
		UserID: userID,
		Stage:  models.StageBrowsing,
	}
	if err := s.Flows.Put(ctx, flow); err != nil {
		return nil, err
	}
	return &flow, nil
}

// SelectGuru pins the guru and returns their consultation types (cached).
// Reselecting a guru resets every later choice.
func (s *DefaultBookingFlowService) SelectGuru(ctx context.Context, flowID, guruID string) (*models.BookingFlow, []models.ConsultationType, error) {
	flow, err := s.Flows.Get(ctx, flowID)
	if err != nil {
		return nil, nil, err
	}
	if !reachedStage(flow, models.StageBrowsing) {
		return nil, nil, &FlowStateError{Stage: flow.Stage, Action: "select guru"}
	}
	if guruID == "" {
		return nil, nil, &MissingFieldError{Field: "guruId"}
	}

	types, err := s.Types.Get(ctx, guruID)
	if err != nil {
		return nil, nil, err
	}

	flow.GuruID = guruID
	flow.ConsultationTypeID = ""
	flow.RequiredMinutes = 0
	flow.CreditsRequired = 0
	flow.Date = ""
	flow.Slot = nil
	flow.Stage = models.StageGuruSelected
	if err := s.Flows.Put(ctx, *flow); err != nil {
		return nil, nil, err
	}
	return flow, types, nil
}

// SelectConsultation pins the consultation type, recording its required
// duration and credit price for the later local checks.
func (s *DefaultBookingFlowService) SelectConsultation(ctx context.Context, flowID, consultationTypeID string) (*models.BookingFlow, error) {
	flow, err := s.Flows.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if !reachedStage(flow, models.StageGuruSelected) {
		return nil, &FlowStateError{Stage: flow.Stage, Action: "select consultation"}
	}
	if consultationTypeID == "" {
		return nil, &MissingFieldError{Field: "consultationTypeId"}
	}

	types, err := s.Types.Get(ctx, flow.GuruID)
	if err != nil {
		return nil, err
	}
	var selected *models.ConsultationType
	for i := range types {
		if types[i].ID == consultationTypeID {
			selected = &types[i]
			break
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("consultation type %s not offered by guru %s", consultationTypeID, flow.GuruID)
	}

	flow.ConsultationTypeID = selected.ID
	flow.RequiredMinutes = selected.DurationMinutes
	flow.CreditsRequired = selected.Credits
	flow.Date = ""
	flow.Slot = nil
	flow.Stage = models.StageConsultationSelected
	if err := s.Flows.Put(ctx, *flow); err != nil {
		return nil, err
	}
	return flow, nil
}

// SelectDate pins the date and returns the guru's open slots for it.
func (s *DefaultBookingFlowService) SelectDate(ctx context.Context, flowID, date string) (*models.BookingFlow, []models.TimeSlot, error) {
	flow, err := s.Flows.Get(ctx, flowID)
	if err != nil {
		return nil, nil, err
	}
	if !reachedStage(flow, models.StageConsultationSelected) {
		return nil, nil, &FlowStateError{Stage: flow.Stage, Action: "select date"}
	}
	if date == "" {
		return nil, nil, &MissingFieldError{Field: "date"}
	}

	slots, err := s.Availability.Get(ctx, flow.GuruID, date)
	if err != nil {
		return nil, nil, err
	}

	flow.Date = date
	flow.Slot = nil
	flow.Stage = models.StageDateSelected
	if err := s.Flows.Put(ctx, *flow); err != nil {
		return nil, nil, err
	}
	return flow, slots, nil
}

// SelectSlot pins a slot after checking locally that the consultation's
// duration fits inside it. A slot that cannot hold the consultation is
// rejected without any network call.
func (s *DefaultBookingFlowService) SelectSlot(ctx context.Context, flowID string, slot models.TimeSlot) (*models.BookingFlow, error) {
	flow, err := s.Flows.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if !reachedStage(flow, models.StageDateSelected) {
		return nil, &FlowStateError{Stage: flow.Stage, Action: "select slot"}
	}
	if slot.GuruID != flow.GuruID || slot.Date != flow.Date {
		return nil, &MissingFieldError{Field: "slot"}
	}
	if flow.RequiredMinutes > slot.DurationMinutes {
		return nil, &SlotTooShortError{
			SlotMinutes:     slot.DurationMinutes,
			RequiredMinutes: flow.RequiredMinutes,
		}
	}

	flow.Slot = &slot
	flow.Stage = models.StageSlotSelected
	if err := s.Flows.Put(ctx, *flow); err != nil {
		return nil, err
	}
	return flow, nil
}
