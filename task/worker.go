package task

import (
	"fmt"

	"github.com/wudi/scorekit/segment"
)

// completion is the internal envelope a unit posts back to the pool when it
// finishes a request. resp is nil when the request's kind was unrecognized
// and the message was dropped; the unit itself is free again either way.
type completion struct {
	unit int
	resp *Response
}

// runUnit is one execution unit's loop. It exits when its inbox closes.
func (p *Pool) runUnit(id int, inbox <-chan Request) {
	defer p.wg.Done()
	for req := range inbox {
		p.completions <- completion{unit: id, resp: p.run(req)}
	}
}

// run is the unit's fault boundary around whatever executor the pool carries.
// Any panic escaping it is recovered here, coerced to a string and returned
// as an error response, so a fault never takes the unit down.
func (p *Pool) run(req Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = &Response{Kind: KindError, TaskID: req.TaskID, Message: coerce(r)}
		}
	}()
	return p.exec(req)
}

// execute runs one request against the detection pipeline.
func execute(req Request) *Response {
	switch req.Kind {
	case KindDetectSystems:
		systems, err := segment.DetectSystems(req.Data, req.Width, req.Height, req.SystemGap)
		if err != nil {
			return errorResponse(req, err)
		}
		return &Response{
			Kind:      KindDetectSystemsResult,
			TaskID:    req.TaskID,
			PageIndex: req.PageIndex,
			Systems:   systems,
		}

	case KindDetectStaffs:
		staffs, err := segment.DetectStaffs(req.Data, req.Width, req.Height, req.Systems, req.PartGap)
		if err != nil {
			return errorResponse(req, err)
		}
		return &Response{
			Kind:           KindDetectStaffsResult,
			TaskID:         req.TaskID,
			PageIndex:      req.PageIndex,
			StaffsBySystem: staffs,
		}

	case KindDetectPage:
		page, err := segment.DetectPage(req.Data, req.Width, req.Height, req.SystemGap, req.PartGap)
		if err != nil {
			return errorResponse(req, err)
		}
		return &Response{
			Kind:      KindDetectPageResult,
			TaskID:    req.TaskID,
			PageIndex: req.PageIndex,
			Page:      page,
		}

	default:
		// Unrecognized kinds are dropped without a response.
		return nil
	}
}

func errorResponse(req Request, err error) *Response {
	return &Response{Kind: KindError, TaskID: req.TaskID, Message: err.Error()}
}

func coerce(r interface{}) string {
	switch v := r.(type) {
	case string:
		return v
	case error:
		return v.Error()
	default:
		return fmt.Sprint(v)
	}
}
