package classpath

import (
	"classscan/pkg/serrors"
	"encoding/binary"
	"io"
)

// classMagic opens every compiled-class artifact.
const classMagic uint32 = 0xCAFEBABE

// header is the fixed prefix of a class file.
type header struct {
	Magic uint32
	Minor uint16
	Major uint16
}

// readHeader reads and validates the class-file header from r.
func readHeader(r io.Reader) (header, error) {
	var h header
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return h, serrors.Wrap(serrors.ErrInvalidClass, err, "could not read class header")
	}
	if h.Magic != classMagic {
		return h, serrors.With(serrors.ErrInvalidClass, "bad class magic 0x%08X", h.Magic)
	}

	return h, nil
}
