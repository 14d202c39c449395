package responses

// Stream event types, in emission order.
const (
	EventCreated          = "response.created"
	EventInProgress       = "response.in_progress"
	EventOutputItemAdded  = "response.output_item.added"
	EventContentPartAdded = "response.content_part.added"
	EventOutputTextDelta  = "response.output_text.delta"
	EventOutputTextDone   = "response.output_text.done"
	EventContentPartDone  = "response.content_part.done"
	EventOutputItemDone   = "response.output_item.done"
	EventCompleted        = "response.completed"
)

// EventOrder lists the event kinds of a stream. The delta kind repeats once
// per word.
var EventOrder = []string{
	EventCreated,
	EventInProgress,
	EventOutputItemAdded,
	EventContentPartAdded,
	EventOutputTextDelta,
	EventOutputTextDone,
	EventContentPartDone,
	EventOutputItemDone,
	EventCompleted,
}

// ResponseEvent carries a response snapshot: created, in_progress and
// completed.
type ResponseEvent struct {
	Type           string    `json:"type"`
	SequenceNumber int       `json:"sequence_number"`
	Response       *Response `json:"response"`
}

// OutputItemEvent carries the output message: output_item.added and
// output_item.done.
type OutputItemEvent struct {
	Type           string        `json:"type"`
	SequenceNumber int           `json:"sequence_number"`
	OutputIndex    int           `json:"output_index"`
	Item           OutputMessage `json:"item"`
}

// ContentPartEvent carries the text part: content_part.added and
// content_part.done.
type ContentPartEvent struct {
	Type           string     `json:"type"`
	SequenceNumber int        `json:"sequence_number"`
	ItemID         string     `json:"item_id"`
	OutputIndex    int        `json:"output_index"`
	ContentIndex   int        `json:"content_index"`
	Part           OutputText `json:"part"`
}

// TextDeltaEvent carries one word delta.
type TextDeltaEvent struct {
	Type           string `json:"type"`
	SequenceNumber int    `json:"sequence_number"`
	ItemID         string `json:"item_id"`
	OutputIndex    int    `json:"output_index"`
	ContentIndex   int    `json:"content_index"`
	Delta          string `json:"delta"`
}

// TextDoneEvent carries the full text.
type TextDoneEvent struct {
	Type           string `json:"type"`
	SequenceNumber int    `json:"sequence_number"`
	ItemID         string `json:"item_id"`
	OutputIndex    int    `json:"output_index"`
	ContentIndex   int    `json:"content_index"`
	Text           string `json:"text"`
}

// sequenced is implemented by every streamed event. The script stamps the
// number as it emits the event.
type sequenced interface {
	setSequence(n int)
}

func (e *ResponseEvent) setSequence(n int)    { e.SequenceNumber = n }
func (e *OutputItemEvent) setSequence(n int)  { e.SequenceNumber = n }
func (e *ContentPartEvent) setSequence(n int) { e.SequenceNumber = n }
func (e *TextDeltaEvent) setSequence(n int)   { e.SequenceNumber = n }
func (e *TextDoneEvent) setSequence(n int)    { e.SequenceNumber = n }
