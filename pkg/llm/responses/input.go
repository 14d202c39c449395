package responses

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/papercomputeco/llmock/pkg/llm"
)

// Input is the request input: a bare string or a list of items.
type Input struct {
	text  *string
	items []InputItem
}

// TextInput returns bare string input.
func TextInput(s string) Input {
	return Input{text: &s}
}

// ItemsInput returns list input.
func ItemsInput(items ...InputItem) Input {
	if items == nil {
		items = []InputItem{}
	}
	return Input{items: items}
}

// IsSet reports whether the input field was present.
func (in Input) IsSet() bool {
	return in.text != nil || in.items != nil
}

// Text returns the bare string input, if that is what was sent.
func (in Input) Text() (string, bool) {
	if in.text == nil {
		return "", false
	}
	return *in.text, true
}

// Items returns the input items. It is nil for bare string input.
func (in Input) Items() []InputItem {
	return in.items
}

func (in *Input) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*in = Input{}

	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		in.text = &s
		return nil
	case len(data) > 0 && data[0] == '[':
		items := []InputItem{}
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		in.items = items
		return nil
	default:
		return errors.New("input must be a string or an array of input items")
	}
}

func (in Input) MarshalJSON() ([]byte, error) {
	switch {
	case in.text != nil:
		return json.Marshal(*in.text)
	case in.items != nil:
		return json.Marshal(in.items)
	default:
		return []byte("null"), nil
	}
}

// ItemKind tells the two input item variants apart.
type ItemKind int

const (
	// ItemFlat is {"role", "content": string} with no type field.
	ItemFlat ItemKind = iota

	// ItemMessage is {"type": "message", "role", "content": string | parts}.
	ItemMessage
)

// ItemTypeMessage is the type of a structured input item.
const ItemTypeMessage = "message"

// Content part types.
const (
	PartInputText  = "input_text"
	PartInputImage = "input_image"
)

// InputItem is one element of list input.
type InputItem struct {
	Kind  ItemKind
	Role  llm.Role
	text  *string
	Parts []ContentPart
}

// FlatItem builds a flat item.
func FlatItem(role llm.Role, content string) InputItem {
	return InputItem{Kind: ItemFlat, Role: role, text: &content}
}

// MessageItem builds a structured item with string content.
func MessageItem(role llm.Role, content string) InputItem {
	return InputItem{Kind: ItemMessage, Role: role, text: &content}
}

// PartsItem builds a structured item with typed parts.
func PartsItem(role llm.Role, parts ...ContentPart) InputItem {
	if parts == nil {
		parts = []ContentPart{}
	}
	return InputItem{Kind: ItemMessage, Role: role, Parts: parts}
}

// Content returns string content, if the item has it.
func (it InputItem) Content() (string, bool) {
	if it.text == nil {
		return "", false
	}
	return *it.text, true
}

// ContentPart is a typed part of a structured item.
type ContentPart struct {
	Type     string  `json:"type"`
	Text     string  `json:"text,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
	Detail   string  `json:"detail,omitempty"`
}

// InputText builds an input_text part.
func InputText(text string) ContentPart {
	return ContentPart{Type: PartInputText, Text: text}
}

// InputImage builds an input_image part.
func InputImage(url string) ContentPart {
	return ContentPart{Type: PartInputImage, ImageURL: &url, Detail: "auto"}
}

type wireItem struct {
	Type    *string         `json:"type,omitempty"`
	Role    llm.Role        `json:"role"`
	Content json.RawMessage `json:"content"`
}

// UnmarshalJSON tags the item by its shape. A "type" of "message" or list
// content makes it structured; a bare role and string content make it flat.
func (it *InputItem) UnmarshalJSON(data []byte) error {
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Type != nil && *w.Type != ItemTypeMessage {
		return fmt.Errorf("unsupported input item type %q", *w.Type)
	}

	*it = InputItem{Role: w.Role}
	if w.Type != nil {
		it.Kind = ItemMessage
	}

	content := bytes.TrimSpace(w.Content)
	switch {
	case len(content) > 0 && content[0] == '"':
		var s string
		if err := json.Unmarshal(content, &s); err != nil {
			return err
		}
		it.text = &s
	case len(content) > 0 && content[0] == '[':
		parts := []ContentPart{}
		if err := json.Unmarshal(content, &parts); err != nil {
			return err
		}
		it.Kind = ItemMessage
		it.Parts = parts
	default:
		return errors.New("input item content must be a string or an array of content parts")
	}
	return nil
}

func (it InputItem) MarshalJSON() ([]byte, error) {
	w := wireItem{Role: it.Role}
	if it.Kind == ItemMessage {
		typ := ItemTypeMessage
		w.Type = &typ
	}

	var err error
	if it.text != nil {
		w.Content, err = json.Marshal(*it.text)
	} else {
		w.Content, err = json.Marshal(it.Parts)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}
