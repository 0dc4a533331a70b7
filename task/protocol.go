// Package task runs detection requests on a fixed set of isolated execution
// units and correlates asynchronous results back to callers through futures.
// Units share no mutable state with the caller or with each other; all
// communication is message passing, and a request's pixel buffer is owned by
// the pool from submission onward.
package task

import (
	"fmt"

	"github.com/wudi/scorekit/segment"
)

// Kind discriminates protocol messages. Unknown kinds are dropped silently so
// protocol evolution never crashes an older or newer peer.
type Kind string

const (
	KindDetectSystems Kind = "DETECT_SYSTEMS"
	KindDetectStaffs  Kind = "DETECT_STAFFS"
	KindDetectPage    Kind = "DETECT_PAGE"

	KindDetectSystemsResult Kind = "DETECT_SYSTEMS_RESULT"
	KindDetectStaffsResult  Kind = "DETECT_STAFFS_RESULT"
	KindDetectPageResult    Kind = "DETECT_PAGE_RESULT"
	KindError               Kind = "ERROR"
)

// Request is one detection invocation. TaskID is assigned by the pool on
// submission. Data is the page's RGBA buffer; ownership transfers to the pool
// when the request is submitted and the submitter must not read it afterward.
type Request struct {
	Kind      Kind
	TaskID    uint64
	PageIndex int

	Data   []byte
	Width  int
	Height int

	// SystemGap applies to DetectSystems and DetectPage.
	SystemGap int
	// PartGap applies to DetectStaffs and DetectPage.
	PartGap int
	// Systems carries the input boundaries for DetectStaffs.
	Systems []segment.Boundary
}

// Response carries the result of one request. Exactly one payload field is
// populated, matching the Kind.
type Response struct {
	Kind      Kind
	TaskID    uint64
	PageIndex int

	Systems        []segment.Boundary    // KindDetectSystemsResult
	StaffsBySystem [][]segment.Boundary  // KindDetectStaffsResult
	Page           []segment.SystemParts // KindDetectPageResult
	Message        string                // KindError
}

// TaskError is the rejection reason delivered through a future when a unit
// reports a fault for the originating request.
type TaskError struct {
	TaskID  uint64
	Message string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d: %s", e.TaskID, e.Message)
}
