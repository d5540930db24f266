package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SchemaVersion identifies which upstream payload shape produced a result.
type SchemaVersion string

const (
	// SchemaLegacyML is the bare classifier output: fertilizer names and
	// nutrient statuses under ml_predictions or ml_model_prediction.
	SchemaLegacyML SchemaVersion = "legacy-ml"
	// SchemaStructured is the LLM-enriched plan with product details,
	// organic alternatives, timing and costs.
	SchemaStructured SchemaVersion = "structured"
)

var (
	// ErrEmptyEnhancedResult is returned for null or empty payloads.
	ErrEmptyEnhancedResult = errors.New("enhanced result is empty")
	// ErrUnknownSchema is returned when a payload matches no known schema.
	ErrUnknownSchema = errors.New("enhanced result matches no known schema")
)

// EnhancedResult is one of LegacyResult or StructuredResult.
type EnhancedResult interface {
	Schema() SchemaVersion
}

// MLPredictions is the classifier block shared by both schemas.
type MLPredictions struct {
	PrimaryFertilizer   string `json:"Primary_Fertilizer,omitempty"`
	SecondaryFertilizer string `json:"Secondary_Fertilizer,omitempty"`
	PHAmendment         string `json:"pH_Amendment,omitempty"`
	PHStatus            string `json:"pH_Status,omitempty"`
	NStatus             string `json:"N_Status,omitempty"`
	PStatus             string `json:"P_Status,omitempty"`
	KStatus             string `json:"K_Status,omitempty"`
}

// FertilizerProduct describes one fertilizer in a plan.
type FertilizerProduct struct {
	Name              string    `json:"name"`
	NPK               LooseText `json:"npk,omitempty"`
	RatePerHectare    LooseText `json:"rate_per_hectare,omitempty"`
	TotalCost         LooseText `json:"total_cost,omitempty"`
	ApplicationNotes  string    `json:"application_notes,omitempty"`
	Reason            string    `json:"reason,omitempty"`
	ApplicationMethod string    `json:"application_method,omitempty"`
}

// SoilCondition reports nutrient statuses as judged upstream.
type SoilCondition struct {
	PHStatus             string   `json:"ph_status"`
	NStatus              string   `json:"n_status"`
	PStatus              string   `json:"p_status"`
	KStatus              string   `json:"k_status"`
	NutrientDeficiencies []string `json:"nutrient_deficiencies,omitempty"`
	Recommendations      []string `json:"recommendations,omitempty"`
}

// OrganicOption is one organic alternative to the mineral fertilizers.
type OrganicOption struct {
	Name     string      `json:"name"`
	AmountKg LooseNumber `json:"amount_kg"`
	Reason   string      `json:"reason,omitempty"`
	Timing   string      `json:"timing,omitempty"`
	Cost     LooseNumber `json:"cost,omitempty"`
}

// StageNotes holds one free-text entry per plan stage.
type StageNotes struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
	Organic   string `json:"organic,omitempty"`
}

// Empty reports whether no stage carries text.
func (n StageNotes) Empty() bool {
	return n.Primary == "" && n.Secondary == "" && n.Organic == ""
}

// CostEstimate holds the cost text per plan stage and the overall total.
type CostEstimate struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
	Organic   string `json:"organic,omitempty"`
	Total     string `json:"total,omitempty"`
}

// LegacyResult is a payload that only carries classifier predictions.
type LegacyResult struct {
	Predictions MLPredictions
}

// Schema implements EnhancedResult.
func (LegacyResult) Schema() SchemaVersion { return SchemaLegacyML }

// StructuredResult is the LLM-enriched payload.
type StructuredResult struct {
	Predictions         *MLPredictions
	Primary             *FertilizerProduct
	Secondary           *FertilizerProduct
	SoilCondition       *SoilCondition
	OrganicAlternatives []OrganicOption
	Timing              StageNotes
	Cost                CostEstimate
}

// Schema implements EnhancedResult.
func (StructuredResult) Schema() SchemaVersion { return SchemaStructured }

// LooseText accepts a JSON string or number and keeps it as text.
type LooseText string

// UnmarshalJSON implements json.Unmarshaler.
func (t *LooseText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = LooseText(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("loose text: %w", err)
	}
	*t = LooseText(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// LooseNumber accepts a JSON number, a numeric string or null. Strings that
// do not parse, and non-finite values, decode to 0.
type LooseNumber float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *LooseNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			f = 0
		}
		*n = LooseNumber(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("loose number: %w", err)
	}
	*n = LooseNumber(f)
	return nil
}

type stageWire struct {
	PrimaryFertilizer   string `json:"primary_fertilizer"`
	Primary             string `json:"primary"`
	SecondaryFertilizer string `json:"secondary_fertilizer"`
	Secondary           string `json:"secondary"`
	OrganicOptions      string `json:"organic_options"`
	Organics            string `json:"organics"`
}

func (w *stageWire) notes() StageNotes {
	if w == nil {
		return StageNotes{}
	}
	return StageNotes{
		Primary:   firstNonEmpty(w.PrimaryFertilizer, w.Primary),
		Secondary: firstNonEmpty(w.SecondaryFertilizer, w.Secondary),
		Organic:   firstNonEmpty(w.OrganicOptions, w.Organics),
	}
}

type costWire struct {
	PrimaryFertilizer   LooseText `json:"primary_fertilizer"`
	Primary             LooseText `json:"primary"`
	SecondaryFertilizer LooseText `json:"secondary_fertilizer"`
	Secondary           LooseText `json:"secondary"`
	OrganicOptions      LooseText `json:"organic_options"`
	Organics            LooseText `json:"organics"`
	TotalEstimate       LooseText `json:"total_estimate"`
	Total               LooseText `json:"total"`
}

func (w *costWire) estimate() CostEstimate {
	if w == nil {
		return CostEstimate{}
	}
	return CostEstimate{
		Primary:   firstNonEmpty(string(w.PrimaryFertilizer), string(w.Primary)),
		Secondary: firstNonEmpty(string(w.SecondaryFertilizer), string(w.Secondary)),
		Organic:   firstNonEmpty(string(w.OrganicOptions), string(w.Organics)),
		Total:     firstNonEmpty(string(w.TotalEstimate), string(w.Total)),
	}
}

type enhancedWire struct {
	MLPredictions       *MLPredictions     `json:"ml_predictions"`
	MLModelPrediction   *MLPredictions     `json:"ml_model_prediction"`
	PrimaryFertilizer   *FertilizerProduct `json:"primary_fertilizer"`
	SecondaryFertilizer *FertilizerProduct `json:"secondary_fertilizer"`
	SoilCondition       *SoilCondition     `json:"soil_condition"`
	OrganicAlternatives []OrganicOption    `json:"organic_alternatives"`
	ApplicationTiming   *stageWire         `json:"application_timing"`
	CostEstimate        *costWire          `json:"cost_estimate"`
}

// ParseEnhancedResult classifies a raw upstream payload into one of the
// known schemas. Field aliases are folded here so nothing downstream has to
// probe for alternatives.
func ParseEnhancedResult(raw []byte) (EnhancedResult, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrEmptyEnhancedResult
	}

	var wire enhancedWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode enhanced result: %w", err)
	}

	predictions := wire.MLPredictions
	if predictions == nil {
		predictions = wire.MLModelPrediction
	}

	structured := wire.PrimaryFertilizer != nil ||
		wire.SecondaryFertilizer != nil ||
		wire.SoilCondition != nil ||
		len(wire.OrganicAlternatives) > 0 ||
		wire.ApplicationTiming != nil ||
		wire.CostEstimate != nil

	switch {
	case structured:
		return StructuredResult{
			Predictions:         predictions,
			Primary:             wire.PrimaryFertilizer,
			Secondary:           wire.SecondaryFertilizer,
			SoilCondition:       wire.SoilCondition,
			OrganicAlternatives: wire.OrganicAlternatives,
			Timing:              wire.ApplicationTiming.notes(),
			Cost:                wire.CostEstimate.estimate(),
		}, nil
	case predictions != nil:
		return LegacyResult{Predictions: *predictions}, nil
	default:
		return nil, ErrUnknownSchema
	}
}

// FertilizerPlan is the canonical, fully defaulted view of an enhanced result.
type FertilizerPlan struct {
	Schema              SchemaVersion     `json:"schema"`
	Primary             FertilizerProduct `json:"primaryFertilizer"`
	Secondary           FertilizerProduct `json:"secondaryFertilizer"`
	PHAmendment         string            `json:"phAmendment"`
	PHAmendmentNeeded   bool              `json:"phAmendmentNeeded"`
	SoilCondition       SoilCondition     `json:"soilCondition"`
	OrganicAlternatives []OrganicOption   `json:"organicAlternatives"`
	Timing              StageNotes        `json:"applicationTiming"`
	Cost                CostEstimate      `json:"costEstimate"`
}

const (
	defaultPrimary     = "Unknown"
	defaultSecondary   = "None"
	defaultPHAmendment = "None needed"
	defaultStatus      = "Optimal"
)

// Resolve turns any EnhancedResult into a FertilizerPlan.
func Resolve(result EnhancedResult) FertilizerPlan {
	var (
		predictions MLPredictions
		plan        FertilizerPlan
	)

	switch r := result.(type) {
	case LegacyResult:
		predictions = r.Predictions
		plan.Schema = SchemaLegacyML
	case StructuredResult:
		if r.Predictions != nil {
			predictions = *r.Predictions
		}
		plan.Schema = SchemaStructured
		if r.Primary != nil {
			plan.Primary = *r.Primary
		}
		if r.Secondary != nil {
			plan.Secondary = *r.Secondary
		}
		if r.SoilCondition != nil {
			plan.SoilCondition = *r.SoilCondition
		}
		plan.OrganicAlternatives = r.OrganicAlternatives
		plan.Timing = r.Timing
		plan.Cost = r.Cost
	}

	plan.Primary.Name = firstNonEmpty(plan.Primary.Name, predictions.PrimaryFertilizer, defaultPrimary)
	plan.Secondary.Name = firstNonEmpty(plan.Secondary.Name, predictions.SecondaryFertilizer, defaultSecondary)
	plan.PHAmendment = firstNonEmpty(predictions.PHAmendment, defaultPHAmendment)
	plan.PHAmendmentNeeded = amendmentNeeded(plan.PHAmendment)

	sc := &plan.SoilCondition
	sc.PHStatus = firstNonEmpty(sc.PHStatus, predictions.PHStatus, defaultStatus)
	sc.NStatus = firstNonEmpty(sc.NStatus, predictions.NStatus, defaultStatus)
	sc.PStatus = firstNonEmpty(sc.PStatus, predictions.PStatus, defaultStatus)
	sc.KStatus = firstNonEmpty(sc.KStatus, predictions.KStatus, defaultStatus)

	if plan.OrganicAlternatives == nil {
		plan.OrganicAlternatives = []OrganicOption{}
	}
	return plan
}

func amendmentNeeded(amendment string) bool {
	switch strings.ToLower(strings.TrimSpace(amendment)) {
	case "", "none", "none needed":
		return false
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
