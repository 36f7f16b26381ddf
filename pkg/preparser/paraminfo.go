package preparser

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// ParamDescriptor describes one placeholder of a rewritten statement.
type ParamDescriptor struct {
	Format byte // FormatUser, FormatReplaced or FormatDefault
	Cast   CastFormat
}

// ParamInfo is the parameter descriptor sent to the server alongside the
// rewritten statement: a count followed by one descriptor per placeholder.
type ParamInfo struct {
	Params []ParamDescriptor
}

// Len returns the number of described parameters.
func (pi ParamInfo) Len() int { return len(pi.Params) }

func (pi *ParamInfo) add(format byte, cast CastFormat) {
	pi.Params = append(pi.Params, ParamDescriptor{Format: format, Cast: cast})
}

func (pi *ParamInfo) reset() { pi.Params = pi.Params[:0] }

// String renders the descriptor compactly, e.g. "3:c2?0d0".
func (pi ParamInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:", len(pi.Params))
	for _, p := range pi.Params {
		fmt.Fprintf(&b, "%c%d", p.Format, p.Cast)
	}
	return b.String()
}

// MarshalBinary encodes the count as a uvarint, then a format byte and a
// cast byte per parameter.
func (pi ParamInfo) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, binary.MaxVarintLen64+2*len(pi.Params))
	buf = binary.AppendUvarint(buf, uint64(len(pi.Params)))
	for _, p := range pi.Params {
		buf = append(buf, p.Format, byte(p.Cast))
	}
	return buf, nil
}

var errShortParamInfo = errors.New("paraminfo: truncated data")

// UnmarshalBinary decodes data produced by MarshalBinary.
func (pi *ParamInfo) UnmarshalBinary(data []byte) error {
	n, size := binary.Uvarint(data)
	if size <= 0 {
		return errShortParamInfo
	}
	data = data[size:]
	if uint64(len(data)) != 2*n {
		return fmt.Errorf("paraminfo: expected %d descriptor bytes, got %d", 2*n, len(data))
	}
	pi.Params = make([]ParamDescriptor, n)
	for i := range pi.Params {
		format, cast := data[2*i], CastFormat(data[2*i+1])
		switch format {
		case FormatUser, FormatReplaced, FormatDefault:
		default:
			return fmt.Errorf("paraminfo: invalid format tag %q at %d", format, i)
		}
		if cast > CastNum {
			return fmt.Errorf("paraminfo: invalid cast format %d at %d", cast, i)
		}
		pi.Params[i] = ParamDescriptor{Format: format, Cast: cast}
	}
	return nil
}
