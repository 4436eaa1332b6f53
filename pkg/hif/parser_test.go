package hif

import (
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

type parserTestSequence struct {
	in     []byte
	expect ParseResult
	final  ParseResult
	errIs  error
}

type parserTestSequenceBuilder struct {
	seq []parserTestSequence
}

func parserTestSequences() *parserTestSequenceBuilder {
	return &parserTestSequenceBuilder{}
}

func (b *parserTestSequenceBuilder) on(state State, in ...byte) *parserTestSequenceBuilder {
	s := parserTestSequence{in: in, expect: ParseResult{State: state}}
	s.final = s.expect
	b.seq = append(b.seq, s)
	return b
}

func (b *parserTestSequenceBuilder) final(pr ParseResult) *parserTestSequenceBuilder {
	b.seq[len(b.seq)-1].final = pr
	return b
}

func (b *parserTestSequenceBuilder) ready(state State) *parserTestSequenceBuilder {
	return b.final(ParseResult{Reply: ReadyByte, State: state})
}

func (b *parserTestSequenceBuilder) vector(f Format, tag byte, values ...int64) *parserTestSequenceBuilder {
	v := Vector{Format: f, Tag: tag, Values: append([]int64{}, values...)}
	return b.final(ParseResult{Reply: AckByte, State: StateDone, Vector: &v})
}

func (b *parserTestSequenceBuilder) fails(err error) *parserTestSequenceBuilder {
	b.seq[len(b.seq)-1].final = ParseResult{State: StateWaitSync}
	b.seq[len(b.seq)-1].errIs = err
	return b
}

func (b *parserTestSequenceBuilder) build() []parserTestSequence {
	return b.seq
}

func checksumBytes(p ...byte) []byte {
	sum := ChecksumOf(p)
	return []byte{byte(sum), byte(sum >> 8)}
}

func TestParser(t *testing.T) {
	payload := []byte{0xfe, 0xff, 0xff, 0xff, 0, 0, 1, 0, 2, 0, 3, 0}
	testCases := []struct {
		name string
		seq  []parserTestSequence
	}{
		{
			name: "receive int16",
			seq: parserTestSequences().
				on(StateWaitSync, 'x', 'y', 0).
				on(StateWaitHeader, '<', 0x33, 4, 6, 0, 0).
				on(StateReceivePayload, 0).ready(StateReceivePayload).
				on(StateReceivePayload, payload[:len(payload)-1]...).
				on(StateReceiveChecksum, payload[len(payload)-1]).
				on(StateReceiveChecksum, checksumBytes(payload...)[0]).
				on(StateReceiveChecksum, checksumBytes(payload...)[1]).vector(FormatInt16, 4, -2, -1, 0, 1, 2, 3).
				build(),
		},
		{
			name: "empty payload",
			seq: parserTestSequences().
				on(StateWaitHeader, '<', 0x30, 9, 0, 0, 0).
				on(StateReceiveChecksum, 0).ready(StateReceiveChecksum).
				on(StateReceiveChecksum, 0x34).
				on(StateReceiveChecksum, 0x12).vector(FormatUint8, 9).
				build(),
		},
		{
			name: "unflagged format",
			seq: parserTestSequences().
				on(StateWaitHeader, '<', 0x01, 2, 1, 0, 0).
				on(StateReceivePayload, 0).ready(StateReceivePayload).
				on(StateReceiveChecksum, 0x80).
				on(StateReceiveChecksum, checksumBytes(0x80)[0]).
				on(StateReceiveChecksum, checksumBytes(0x80)[1]).vector(FormatInt8, 2, -128).
				build(),
		},
		{
			name: "invalid format",
			seq: parserTestSequences().
				on(StateWaitHeader, '<', 0x36, 1, 1, 0, 0).
				on(StateWaitSync, 0).fails(ErrProtocol).
				build(),
		},
		{
			name: "payload too large",
			seq: parserTestSequences().
				on(StateWaitHeader, '<', 0x34, 1, 0xff, 0xff, 0xff).
				on(StateWaitSync, 0xff).fails(ErrProtocol).
				build(),
		},
		{
			name: "checksum mismatch then resync",
			seq: parserTestSequences().
				on(StateWaitHeader, '<', 0x30, 3, 2, 0, 0).
				on(StateReceivePayload, 0).ready(StateReceivePayload).
				on(StateReceivePayload, 1).
				on(StateReceiveChecksum, 2).
				on(StateReceiveChecksum, 0).
				on(StateWaitSync, 0).fails(ErrChecksumMismatch).
				on(StateWaitHeader, '<', 0x30, 3, 1, 0, 0).
				on(StateReceivePayload, 0).ready(StateReceivePayload).
				on(StateReceiveChecksum, 5).
				on(StateReceiveChecksum, checksumBytes(5)[0]).
				on(StateReceiveChecksum, checksumBytes(5)[1]).vector(FormatUint8, 3, 5).
				build(),
		},
		{
			name: "marker inside payload",
			seq: parserTestSequences().
				on(StateWaitHeader, '<', 0x30, 1, 2, 0, 0).
				on(StateReceivePayload, 0).ready(StateReceivePayload).
				on(StateReceivePayload, '<').
				on(StateReceiveChecksum, '>').
				on(StateReceiveChecksum, checksumBytes('<', '>')[0]).
				on(StateReceiveChecksum, checksumBytes('<', '>')[1]).vector(FormatUint8, 1, '<', '>').
				build(),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewParser(MarkerOutbound)
			p.MaxPayload = 1024
			for n, s := range tc.seq {
				name := fmt.Sprintf("seq[%d]", n)
				for i, b := range s.in {
					pr := p.Parse(b)
					expect := s.expect
					if i == len(s.in)-1 {
						expect = s.final
					}
					if s.errIs != nil && i == len(s.in)-1 {
						require.ErrorIsf(t, pr.Err, s.errIs, "%s.in[%d]", name, i)
						pr.Err = nil
					}
					require.Equalf(t, expect, pr, "%s.in[%d]", name, i)
				}
			}
			require.Equal(t, StateWaitSync, p.State())
		})
	}
}

func TestParserChecksumErrorCarriesVector(t *testing.T) {
	p := NewParser(MarkerInbound)
	var pr ParseResult
	for _, b := range []byte{'>', 0x32, 0x20, 2, 0, 0, 0, 1, 0, 2, 0, 0, 0} {
		pr = p.Parse(b)
	}
	var cerr *ChecksumError
	require.ErrorAs(t, pr.Err, &cerr)
	require.Zero(t, pr.Reply)
	require.Equal(t, uint16(0), cerr.Received)
	require.Equal(t, ChecksumOf([]byte{1, 0, 2, 0}), cerr.Computed)
	require.Equal(t, NewVector(FormatUint16, 0x20, 1, 2), cerr.Vector)
}

func TestParserReset(t *testing.T) {
	p := NewParser(MarkerOutbound)
	for _, b := range []byte{'<', 0x30, 1, 4, 0, 0, 0, 1} {
		p.Parse(b)
	}
	require.Equal(t, StateReceivePayload, p.State())
	require.Equal(t, Header{Format: FormatUint8, Tag: 1, Count: 4}, p.Header())
	p.Reset()
	require.Equal(t, StateWaitSync, p.State())
	require.Equal(t, Header{}, p.Header())
}

func TestStateString(t *testing.T) {
	require.Equal(t, "wait-sync", StateWaitSync.String())
	require.Equal(t, "receive-checksum", StateReceiveChecksum.String())
	require.Equal(t, "done", StateDone.String())
	require.Equal(t, "state(42)", State(42).String())
}

func TestParserUnlimitedPayloadSize(t *testing.T) {
	p := NewParser(MarkerOutbound)
	p.MaxPayload = 0
	p.Parse(MarkerOutbound)
	var pr ParseResult
	for _, b := range []byte{byte(FormatInt32), 0x21, 0xff, 0xff, 0xff, 0xff} {
		require.NotPanics(t, func() { pr = p.Parse(b) })
	}
	if strconv.IntSize == 32 {
		require.ErrorIs(t, pr.Err, ErrProtocol)
		require.Equal(t, StateWaitSync, p.State())
		return
	}
	require.NoError(t, pr.Err)
	require.Equal(t, ReadyByte, pr.Reply)
	require.Equal(t, StateReceivePayload, p.State())
}

func TestHeaderPayloadSize(t *testing.T) {
	require.Equal(t, 12, Header{Format: FormatInt16, Count: 6}.PayloadSize())
	size := Header{Format: FormatInt32, Count: math.MaxUint32}.PayloadSize()
	if strconv.IntSize == 32 {
		require.Equal(t, -1, size)
	} else {
		require.Equal(t, uint64(4)*math.MaxUint32, uint64(size))
	}
}
