package apitypes

import "fmt"

// ApiError represents an RFC 7807 (problem+json) error response.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// --

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

// Device describes one registered device on the table.
type Device struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Major uint32 `json:"major"`
	Minor uint32 `json:"minor"`
	Node  string `json:"node"`
}

type DevicesListResponse struct {
	Devices []Device `json:"devices"`
}

type DeviceRemoveResponse struct {
	Name string `json:"name"`
}

// DeviceCreateRequest asks for a new device. Type is required; Name
// defaults to a generated one. Mapping and Speed apply to the remap
// type only and keep the type defaults when omitted.
type DeviceCreateRequest struct {
	Type    *string `json:"type"`
	Name    *string `json:"name,omitempty"`
	Mapping *string `json:"mapping,omitempty"`
	Speed   *int    `json:"speed,omitempty"`
}

// DeviceWriteResponse reports the byte count a control write accepted.
type DeviceWriteResponse struct {
	Name     string `json:"name"`
	Accepted int    `json:"accepted"`
}

// DeviceStateResponse is a remap device's introspection snapshot.
type DeviceStateResponse struct {
	Name string `json:"name"`
	// Mapping is the 4-symbol direction mapping, UP DOWN LEFT RIGHT.
	Mapping string `json:"mapping"`
	Speed   int    `json:"speed"`
	// Window holds the two most recent press scancodes, oldest first.
	Window [2]byte `json:"window"`

	Interrupts uint64 `json:"interrupts"`
	Presses    uint64 `json:"presses"`
	Decodes    uint64 `json:"decodes"`
	Emitted    uint64 `json:"emitted"`
	Malformed  uint64 `json:"malformed"`
}
