package registryhttp

import (
	"encoding/json"
	"fmt"

	"github.com/logilab/onyxia-composer/internal/adapters/dto"
	"github.com/logilab/onyxia-composer/internal/domain"
)

// nameReply and messageReply use pointers so a missing field can be told
// apart from its zero value.
type nameReply struct {
	Exists      *bool  `json:"exists"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type messageReply struct {
	Message *string `json:"message"`
}

func malformed(endpoint string, reply Reply, format string, args ...any) error {
	return &domain.ResponseError{
		Endpoint: endpoint,
		Status:   reply.Status,
		Detail:   "malformed reply: " + fmt.Sprintf(format, args...),
	}
}

func decodeNameCheck(endpoint string, reply Reply) (domain.NameCheck, error) {
	if !reply.IsJSON() {
		return domain.NameCheck{}, malformed(endpoint, reply, "expected a JSON object")
	}
	var r nameReply
	if err := json.Unmarshal(reply.JSON, &r); err != nil {
		return domain.NameCheck{}, malformed(endpoint, reply, "%v", err)
	}
	if r.Exists == nil {
		return domain.NameCheck{}, malformed(endpoint, reply, "missing exists field")
	}
	return domain.NameCheck{
		Exists:      *r.Exists,
		Version:     r.Version,
		Description: r.Description,
		IconURL:     r.Icon,
	}, nil
}

// decodeMessage accepts {message}, a bare JSON string or plain text. A plain
// text body is the message itself. When required is set, a JSON object
// without a message is malformed.
func decodeMessage(endpoint string, reply Reply, required bool) (string, error) {
	if !reply.IsJSON() {
		return reply.Text, nil
	}

	var text string
	if err := json.Unmarshal(reply.JSON, &text); err == nil {
		return text, nil
	}

	var r messageReply
	if err := json.Unmarshal(reply.JSON, &r); err != nil {
		return "", malformed(endpoint, reply, "%v", err)
	}
	if r.Message == nil {
		if required {
			return "", malformed(endpoint, reply, "missing message field")
		}
		return "", nil
	}
	return *r.Message, nil
}

func decodeServices(endpoint string, reply Reply) (map[string]domain.ServiceSummary, error) {
	if !reply.IsJSON() {
		return nil, malformed(endpoint, reply, "expected a JSON object")
	}
	var r dto.ServicesResponse
	if err := json.Unmarshal(reply.JSON, &r); err != nil {
		return nil, malformed(endpoint, reply, "%v", err)
	}
	if r.Services == nil {
		return nil, malformed(endpoint, reply, "missing services field")
	}
	return r.Services, nil
}
