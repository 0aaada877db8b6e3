package dataprocessing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"emaparse/internal/config"
	"emaparse/pkg/contracts/domain"
)

// Normalizer reshapes one subject's raw payload into flat rows. All
// validation failures are captured as ParsingIssue values; the
// normalizer itself never fails.
type Normalizer struct {
	listDelimiter string
	pnaValue      string
}

// NewNormalizer creates a normalizer with the configured policy.
func NewNormalizer(cfg config.ParserConfig) *Normalizer {
	return &Normalizer{
		listDelimiter: cfg.ListDelimiter,
		pnaValue:      cfg.PNAValue,
	}
}

// columnTracker records first-seen column order for one subject.
type columnTracker struct {
	order []string
	seen  map[string]bool
}

func (t *columnTracker) add(column string) {
	if t.seen == nil {
		t.seen = make(map[string]bool)
	}
	if t.seen[column] {
		return
	}
	t.seen[column] = true
	t.order = append(t.order, column)
}

// NormalizeSubject produces the tagged result for one subject: the
// rows that could be built, every issue found, and the verbatim raw
// payload for possible quarantine.
func (n *Normalizer) NormalizeSubject(subjectID string, raw json.RawMessage) domain.SubjectResult {
	result := domain.SubjectResult{SubjectID: subjectID, Raw: raw}
	tracker := &columnTracker{}

	existential := func(pingID, format string, args ...any) {
		result.Issues = append(result.Issues, domain.ParsingIssue{
			Severity:    domain.SeverityExistential,
			SubjectID:   subjectID,
			PingID:      pingID,
			Description: fmt.Sprintf(format, args...),
		})
	}
	tolerable := func(pingID, format string, args ...any) {
		result.Issues = append(result.Issues, domain.ParsingIssue{
			Severity:    domain.SeverityTolerable,
			SubjectID:   subjectID,
			PingID:      pingID,
			Description: fmt.Sprintf(format, args...),
		})
	}

	if strings.TrimSpace(subjectID) == "" {
		existential("", "empty subject id")
		return result
	}

	var rawPings []json.RawMessage
	if err := json.Unmarshal(raw, &rawPings); err != nil {
		existential("", "payload is not an array of pings: %v", err)
		return result
	}

	if len(rawPings) == 0 {
		tolerable("", "subject has no pings")
		return result
	}

	seenPings := make(map[string]bool)

	for i, rawPing := range rawPings {
		var ping domain.Ping
		if err := json.Unmarshal(rawPing, &ping); err != nil {
			existential("", "ping %d is not a valid object: %v", i, err)
			continue
		}

		if strings.TrimSpace(ping.PingID) == "" {
			existential("", "ping %d is missing ping_id", i)
			continue
		}

		if seenPings[ping.PingID] {
			tolerable(ping.PingID, "duplicate ping id, keeping first occurrence")
			continue
		}
		seenPings[ping.PingID] = true

		if ping.Timestamp == "" {
			tolerable(ping.PingID, "missing timestamp")
		}

		row := domain.NormalizedRow{
			SubjectID: subjectID,
			PingID:    ping.PingID,
			Timestamp: ping.Timestamp,
			Values:    make(map[string]string),
		}

		if ping.Stream != "" {
			tracker.add("stream")
			row.Values["stream"] = ping.Stream
		}

		answers, err := decodeAnswers(ping.Answers)
		if err != nil {
			tolerable(ping.PingID, "unusable answers, emitting metadata-only row: %v", err)
		} else if len(answers) == 0 {
			tolerable(ping.PingID, "ping has no answers")
		}

		for _, answer := range answers {
			if strings.TrimSpace(answer.QuestionID) == "" {
				tolerable(ping.PingID, "answer with empty question id skipped")
				continue
			}
			value, err := n.renderValue(answer.Value)
			if err != nil {
				tolerable(ping.PingID, "unrenderable value for question %q: %v", answer.QuestionID, err)
				continue
			}
			tracker.add(answer.QuestionID)
			row.Values[answer.QuestionID] = value
		}

		result.Rows = append(result.Rows, row)
	}

	result.Columns = tracker.order
	return result
}

// decodeAnswers accepts both documented answer shapes: an object of
// question id to value, and an array of {question_id, value} pairs.
// Object key order is preserved so column ordering follows the input.
func decodeAnswers(raw json.RawMessage) ([]domain.Answer, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '{':
		return decodeAnswerObject(trimmed)
	case '[':
		var pairs []struct {
			QuestionID string          `json:"question_id"`
			Value      json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(trimmed, &pairs); err != nil {
			return nil, err
		}
		answers := make([]domain.Answer, 0, len(pairs))
		for _, p := range pairs {
			answers = append(answers, domain.Answer{QuestionID: p.QuestionID, Value: p.Value})
		}
		return answers, nil
	default:
		return nil, fmt.Errorf("answers must be an object or an array")
	}
}

// decodeAnswerObject walks the object token by token so question
// columns come out in document order, which encoding/json maps would
// not preserve.
func decodeAnswerObject(raw []byte) ([]domain.Answer, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	if _, err := dec.Token(); err != nil { // consume '{'
		return nil, err
	}

	var answers []domain.Answer
	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyToken.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", keyToken)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		answers = append(answers, domain.Answer{QuestionID: key, Value: value})
	}

	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return answers, nil
}

// pnaEnvelope is the prefer-not-to-answer wrapper some collection
// clients emit instead of a plain value.
type pnaEnvelope struct {
	Data              json.RawMessage `json:"data"`
	PreferNotToAnswer bool            `json:"prefer_not_to_answer"`
}

// renderValue converts one raw answer value to its cell string:
// scalars verbatim, lists joined with the configured delimiter, null
// as an empty cell, prefer-not-to-answer envelopes as the PNA marker.
func (n *Normalizer) renderValue(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return "", err
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			part, err := n.renderValue(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
		}
		return strings.Join(parts, n.listDelimiter), nil
	case '{':
		var envelope pnaEnvelope
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return "", err
		}
		if envelope.PreferNotToAnswer {
			return n.pnaValue, nil
		}
		if len(envelope.Data) > 0 {
			return n.renderValue(envelope.Data)
		}
		return n.renderObjectValues(trimmed)
	default:
		// Numbers and booleans keep their literal JSON text, so
		// 3.10 does not silently become 3.1.
		return string(trimmed), nil
	}
}

// renderObjectValues joins an object's values in document order. This
// matches how dictionary-shaped responses collapse to one cell.
func (n *Normalizer) renderObjectValues(raw []byte) (string, error) {
	answers, err := decodeAnswerObject(raw)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(answers))
	for _, answer := range answers {
		part, err := n.renderValue(answer.Value)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, n.listDelimiter), nil
}
