// Messages of hif.proto.
// source: hif.proto

package v1

import (
	fmt "fmt"
	math "math"

	proto "github.com/golang/protobuf/proto"
)

var _ = proto.Marshal
var _ = fmt.Errorf
var _ = math.Inf

// Vector is a tagged typed vector transferred over the link.
type Vector struct {
	// format is the wire format code, 0 uint8 to 5 int32.
	Format               uint32   `protobuf:"varint,1,opt,name=format,proto3" json:"format,omitempty"`
	Tag                  uint32   `protobuf:"varint,2,opt,name=tag,proto3" json:"tag,omitempty"`
	Values               []int64  `protobuf:"zigzag64,3,rep,packed,name=values,proto3" json:"values,omitempty"`
	RequestId            string   `protobuf:"bytes,4,opt,name=request_id,json=requestId,proto3" json:"request_id,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Vector) Reset()         { *m = Vector{} }
func (m *Vector) String() string { return proto.CompactTextString(m) }
func (*Vector) ProtoMessage()    {}

func (m *Vector) GetFormat() uint32 {
	if m != nil {
		return m.Format
	}
	return 0
}

func (m *Vector) GetTag() uint32 {
	if m != nil {
		return m.Tag
	}
	return 0
}

func (m *Vector) GetValues() []int64 {
	if m != nil {
		return m.Values
	}
	return nil
}

func (m *Vector) GetRequestId() string {
	if m != nil {
		return m.RequestId
	}
	return ""
}

// Command sends a command token to the device.
type Command struct {
	Token                string   `protobuf:"bytes,1,opt,name=token,proto3" json:"token,omitempty"`
	RequestId            string   `protobuf:"bytes,2,opt,name=request_id,json=requestId,proto3" json:"request_id,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Command) Reset()         { *m = Command{} }
func (m *Command) String() string { return proto.CompactTextString(m) }
func (*Command) ProtoMessage()    {}

func (m *Command) GetToken() string {
	if m != nil {
		return m.Token
	}
	return ""
}

func (m *Command) GetRequestId() string {
	if m != nil {
		return m.RequestId
	}
	return ""
}

// Result reports the outcome of a request or a failed receive.
type Result struct {
	RequestId string `protobuf:"bytes,1,opt,name=request_id,json=requestId,proto3" json:"request_id,omitempty"`
	Ok        bool   `protobuf:"varint,2,opt,name=ok,proto3" json:"ok,omitempty"`
	Error     string `protobuf:"bytes,3,opt,name=error,proto3" json:"error,omitempty"`
	// kind classifies the error: connection, protocol, timeout,
	// ack-timeout, checksum, unsupported-type, invalid.
	Kind string `protobuf:"bytes,4,opt,name=kind,proto3" json:"kind,omitempty"`
	// checksum is set for checksum errors, the value received.
	Checksum             uint32   `protobuf:"varint,5,opt,name=checksum,proto3" json:"checksum,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Result) Reset()         { *m = Result{} }
func (m *Result) String() string { return proto.CompactTextString(m) }
func (*Result) ProtoMessage()    {}

func (m *Result) GetRequestId() string {
	if m != nil {
		return m.RequestId
	}
	return ""
}

func (m *Result) GetOk() bool {
	if m != nil {
		return m.Ok
	}
	return false
}

func (m *Result) GetError() string {
	if m != nil {
		return m.Error
	}
	return ""
}

func (m *Result) GetKind() string {
	if m != nil {
		return m.Kind
	}
	return ""
}

func (m *Result) GetChecksum() uint32 {
	if m != nil {
		return m.Checksum
	}
	return 0
}

func init() {
	proto.RegisterType((*Vector)(nil), "hif.v1.Vector")
	proto.RegisterType((*Command)(nil), "hif.v1.Command")
	proto.RegisterType((*Result)(nil), "hif.v1.Result")
}
