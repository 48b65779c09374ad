package session

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/kailas-cloud/cityscout/internal/domain/wizard"
)

// schemaVersion is bumped whenever the stored layout changes.
const schemaVersion = 1

type stateDTO struct {
	Version int          `json:"v"`
	State   wizard.State `json:"state"`
}

func encodeState(s wizard.State) ([]byte, error) {
	data, err := json.Marshal(stateDTO{Version: schemaVersion, State: s})
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

func decodeState(data []byte) (wizard.State, error) {
	var dto stateDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return wizard.State{}, fmt.Errorf("decode session: %w", err)
	}
	if dto.Version != schemaVersion {
		return wizard.State{}, fmt.Errorf("decode session: unsupported version %d", dto.Version)
	}
	return dto.State, nil
}
