package domain

import (
	"encoding/json"
	"fmt"
)

// PayloadKind discriminates the chat payload variants
type PayloadKind string

const (
	KindRecommendations PayloadKind = "product_recommendations"
	KindClarification   PayloadKind = "clarification_needed"
	KindNoProducts      PayloadKind = "no_products_found"
	KindAnswer          PayloadKind = "answer"
)

// ResponseType tells the widget which path produced the payload
type ResponseType string

const (
	ResponseProductRecommendation ResponseType = "product_recommendation"
	ResponseRegularChat           ResponseType = "regular_chat"
)

// Payload is one of RecommendationsPayload, ClarificationPayload,
// NoProductsPayload or AnswerPayload.
type Payload interface {
	Kind() PayloadKind
}

// RecommendationsPayload is a ranked set of product cards
type RecommendationsPayload struct {
	Message             string        `json:"message"`
	Products            []ProductCard `json:"products"`
	AdditionalInfo      []string      `json:"additional_info"`
	FollowUpSuggestions []Suggestion  `json:"follow_up_suggestions"`
	Intent              Intent        `json:"intent"`
}

func (RecommendationsPayload) Kind() PayloadKind { return KindRecommendations }

// ClarificationQuestion asks for one missing intent field
type ClarificationQuestion struct {
	FieldName string         `json:"field_name"`
	Type      string         `json:"type"`
	Question  string         `json:"question"`
	Options   []ChoiceOption `json:"options"`
}

// ChoiceOption is one selectable answer of a clarification question
type ChoiceOption struct {
	Value string      `json:"value"`
	Label string      `json:"label"`
	Emoji string      `json:"emoji,omitempty"`
	Range *PriceRange `json:"range,omitempty"`
}

// ClarificationPayload asks the shopper multiple-choice questions
type ClarificationPayload struct {
	Message        string                  `json:"message"`
	Questions      []ClarificationQuestion `json:"questions"`
	ResponseFormat string                  `json:"response_format"`
	Intent         Intent                  `json:"intent"`
}

func (ClarificationPayload) Kind() PayloadKind { return KindClarification }

// NoProductsPayload is returned when retrieval finds nothing
type NoProductsPayload struct {
	Message            string           `json:"message"`
	Suggestions        []Suggestion     `json:"suggestions"`
	AlternativeMessage string           `json:"alternative_message"`
	FallbackProducts   []ProductSummary `json:"fallback_products"`
	Intent             Intent           `json:"intent"`
}

func (NoProductsPayload) Kind() PayloadKind { return KindNoProducts }

// Answer sources
const (
	SourceKnowledgeBase = "knowledge_base"
	SourceOrderSystem   = "order_system"
	SourceDiscounts     = "discount_system"
	SourceCompletion    = "completion"
	SourceFallback      = "fallback"
	SourceRecommender   = "recommendation_engine"
)

// AnswerPayload is the uniform envelope of a general chat answer
type AnswerPayload struct {
	Response      string  `json:"response"`
	KnowledgeUsed bool    `json:"knowledge_used"`
	Source        string  `json:"source"`
	Confidence    float64 `json:"confidence"`
}

func (AnswerPayload) Kind() PayloadKind { return KindAnswer }

// ChatResponse is the result of handling one chat message
type ChatResponse struct {
	ResponseType   ResponseType
	ProcessingTime float64
	Payload        Payload
}

// MarshalJSON flattens the payload and adds the envelope fields
func (r ChatResponse) MarshalJSON() ([]byte, error) {
	fields := map[string]interface{}{}
	if r.Payload != nil {
		body, err := json.Marshal(r.Payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, fmt.Errorf("flatten payload: %w", err)
		}
		fields["type"] = r.Payload.Kind()
	}
	fields["response_type"] = r.ResponseType
	fields["processing_time"] = r.ProcessingTime
	return json.Marshal(fields)
}

// Summary returns the text logged as the bot side of the exchange
func (r ChatResponse) Summary() string {
	switch p := r.Payload.(type) {
	case AnswerPayload:
		return p.Response
	case RecommendationsPayload:
		return p.Message
	case ClarificationPayload:
		return p.Message
	case NoProductsPayload:
		return p.Message
	}
	return ""
}

// Source returns the answer source recorded in the conversation log
func (r ChatResponse) Source() string {
	if p, ok := r.Payload.(AnswerPayload); ok {
		return p.Source
	}
	return SourceRecommender
}
