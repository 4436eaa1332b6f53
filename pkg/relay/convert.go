package relay

import (
	"errors"
	"fmt"

	"github.com/robotalks/hif.go/pkg/hif"
	pb "github.com/robotalks/hif.go/pkg/proto/hif/v1"
)

// Error kinds reported in pb.Result.
const (
	KindConnection      = "connection"
	KindProtocol        = "protocol"
	KindTimeout         = "timeout"
	KindAckTimeout      = "ack-timeout"
	KindChecksum        = "checksum"
	KindUnsupportedType = "unsupported-type"
	KindInvalid         = "invalid"
	KindError           = "error"
)

// VectorToPB converts a vector for publishing.
func VectorToPB(v hif.Vector, requestID string) *pb.Vector {
	return &pb.Vector{
		Format:    uint32(v.Format),
		Tag:       uint32(v.Tag),
		Values:    v.Values,
		RequestId: requestID,
	}
}

// VectorFromPB converts a requested vector.
func VectorFromPB(m *pb.Vector) (hif.Vector, error) {
	if m.GetFormat() > 0xff {
		return hif.Vector{}, &hif.UnsupportedTypeError{Type: fmt.Sprintf("format(%d)", m.GetFormat())}
	}
	f := hif.Format(m.GetFormat())
	if !f.IsValid() {
		return hif.Vector{}, &hif.UnsupportedTypeError{Type: f.String()}
	}
	if m.GetTag() > 0xff {
		return hif.Vector{}, fmt.Errorf("tag %d out of range", m.GetTag())
	}
	v := hif.NewVector(f, byte(m.GetTag()), m.GetValues()...)
	return v, v.Validate()
}

// ErrorKind classifies an error from the link.
func ErrorKind(err error) string {
	var rangeErr *hif.ValueRangeError
	switch {
	case errors.Is(err, hif.ErrChecksumMismatch):
		return KindChecksum
	case errors.Is(err, hif.ErrAckTimeout):
		return KindAckTimeout
	case errors.Is(err, hif.ErrUnsupportedType):
		return KindUnsupportedType
	case errors.Is(err, hif.ErrProtocol):
		return KindProtocol
	case errors.Is(err, hif.ErrTimeout):
		return KindTimeout
	case errors.Is(err, hif.ErrConnection):
		return KindConnection
	case errors.As(err, &rangeErr):
		return KindInvalid
	}
	return KindError
}

// NewResult creates the result of a request.
func NewResult(requestID string, err error) *pb.Result {
	r := &pb.Result{RequestId: requestID, Ok: err == nil}
	if err != nil {
		r.Error = err.Error()
		r.Kind = ErrorKind(err)
		var cerr *hif.ChecksumError
		if errors.As(err, &cerr) {
			r.Checksum = uint32(cerr.Received)
		}
	}
	return r
}
