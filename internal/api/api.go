// Package api defines the payloads exchanged between the server adapters and
// the terminal client. The HTTP adapter sends them as JSON; the gRPC service
// carries the same shapes inside protobuf Struct values.
package api

import "time"

// gRPC service and method names.
const (
	ServiceName = "dutybadge.v1.DutyService"

	MethodPing         = "/" + ServiceName + "/Ping"
	MethodStartService = "/" + ServiceName + "/StartService"
	MethodStopService  = "/" + ServiceName + "/StopService"
	MethodGetStatus    = "/" + ServiceName + "/GetStatus"
	MethodListOnDuty   = "/" + ServiceName + "/ListOnDuty"
	MethodGetReport    = "/" + ServiceName + "/GetReport"
)

// Breakdown is a duration split into whole hours, minutes and seconds.
type Breakdown struct {
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

type Session struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationSeconds int64     `json:"duration_seconds"`
	Duration        Breakdown `json:"duration"`
}

type StartResult struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Start       time.Time `json:"start"`
}

type StopResult struct {
	UserID       string    `json:"user_id"`
	DisplayName  string    `json:"display_name"`
	Session      Session   `json:"session"`
	TotalSeconds int64     `json:"total_seconds"`
	Total        Breakdown `json:"total"`
}

// Status describes one user. CurrentStart is set only while on duty.
type Status struct {
	Known            bool       `json:"known"`
	UserID           string     `json:"user_id"`
	DisplayName      string     `json:"display_name,omitempty"`
	OnDuty           bool       `json:"on_duty"`
	CurrentStart     *time.Time `json:"current_start,omitempty"`
	ElapsedSeconds   int64      `json:"elapsed_seconds"`
	TotalSeconds     int64      `json:"total_seconds"`
	LiveTotalSeconds int64      `json:"live_total_seconds"`
	LiveTotal        Breakdown  `json:"live_total"`
	SessionCount     int        `json:"session_count"`
}

type OnDutyEntry struct {
	UserID         string    `json:"user_id"`
	DisplayName    string    `json:"display_name"`
	Start          time.Time `json:"start"`
	ElapsedSeconds int64     `json:"elapsed_seconds"`
	Elapsed        Breakdown `json:"elapsed"`
}

type OnDutyList struct {
	Users []OnDutyEntry `json:"users"`
}

// Report is a status with the most recent sessions, newest first.
type Report struct {
	Status
	Recent []Session `json:"recent"`
}

// ReportRequest asks for one user's report. Limit <= 0 selects the server
// default.
type ReportRequest struct {
	UserID string `json:"user_id"`
	Limit  int    `json:"limit,omitempty"`
}

// Error is the body of a failed HTTP request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}
