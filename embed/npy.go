package embed

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/edsrzf/mmap-go"

	chonkerrors "github.com/okulic/chonker/errors"
)

// npy header layout: magic, one version byte pair, then a little-endian
// header length followed by a Python dict literal padded to 16/64 bytes.
var npyMagic = []byte("\x93NUMPY")

type npyHeader struct {
	dtype string // "<f4" or "<f8"
	rows  int
	cols  int
}

// readMatrix memory-maps a .npy file and copies its contents out as a
// row-major float32 matrix. Only little-endian float32/float64 C-order
// 2-D arrays are supported. The mapping is read sequentially once and
// released before returning.
func readMatrix(path string) ([][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open embedding file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat embedding file: %w", err)
	}
	fadviseSequential(int(f.Fd()), 0, stat.Size())

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap embedding file: %w", err)
	}
	defer mm.Unmap()

	hdr, body, err := parseNpy([]byte(mm))
	if err != nil {
		return nil, err
	}

	elemSize := 4
	if hdr.dtype == "<f8" {
		elemSize = 8
	}
	if len(body) < hdr.rows*hdr.cols*elemSize {
		return nil, chonkerrors.ErrEmbeddingTruncated
	}

	out := make([][]float32, hdr.rows)
	for r := 0; r < hdr.rows; r++ {
		row := make([]float32, hdr.cols)
		base := r * hdr.cols * elemSize
		for c := 0; c < hdr.cols; c++ {
			off := base + c*elemSize
			if elemSize == 4 {
				row[c] = math.Float32frombits(binary.LittleEndian.Uint32(body[off:]))
			} else {
				row[c] = float32(math.Float64frombits(binary.LittleEndian.Uint64(body[off:])))
			}
		}
		out[r] = row
	}
	return out, nil
}

// parseNpy validates the magic and version and decodes the header dict,
// returning the header and the raw element data that follows it.
func parseNpy(data []byte) (npyHeader, []byte, error) {
	var hdr npyHeader

	if len(data) < len(npyMagic)+4 || !bytes.Equal(data[:len(npyMagic)], npyMagic) {
		return hdr, nil, chonkerrors.ErrNotNumpy
	}
	major := data[len(npyMagic)]

	var headerLen, headerStart int
	switch major {
	case 1:
		if len(data) < 10 {
			return hdr, nil, chonkerrors.ErrNotNumpy
		}
		headerLen = int(binary.LittleEndian.Uint16(data[8:10]))
		headerStart = 10
	case 2, 3:
		if len(data) < 12 {
			return hdr, nil, chonkerrors.ErrNotNumpy
		}
		headerLen = int(binary.LittleEndian.Uint32(data[8:12]))
		headerStart = 12
	default:
		return hdr, nil, chonkerrors.ErrUnsupportedNumpy
	}
	if len(data) < headerStart+headerLen {
		return hdr, nil, chonkerrors.ErrNotNumpy
	}
	header := string(data[headerStart : headerStart+headerLen])

	dtype, err := dictValue(header, "descr")
	if err != nil {
		return hdr, nil, err
	}
	if dtype != "<f4" && dtype != "<f8" {
		return hdr, nil, chonkerrors.ErrUnsupportedNumpy
	}
	hdr.dtype = dtype

	order, err := dictValue(header, "fortran_order")
	if err != nil {
		return hdr, nil, err
	}
	if order != "False" {
		return hdr, nil, chonkerrors.ErrUnsupportedNumpy
	}

	shape, err := dictValue(header, "shape")
	if err != nil {
		return hdr, nil, err
	}
	dims := strings.Split(strings.Trim(shape, "(), "), ",")
	if len(dims) != 2 {
		return hdr, nil, chonkerrors.ErrUnsupportedNumpy
	}
	if hdr.rows, err = strconv.Atoi(strings.TrimSpace(dims[0])); err != nil {
		return hdr, nil, chonkerrors.ErrUnsupportedNumpy
	}
	if hdr.cols, err = strconv.Atoi(strings.TrimSpace(dims[1])); err != nil {
		return hdr, nil, chonkerrors.ErrUnsupportedNumpy
	}
	if hdr.rows < 0 || hdr.cols < 0 {
		return hdr, nil, chonkerrors.ErrUnsupportedNumpy
	}

	return hdr, data[headerStart+headerLen:], nil
}

// dictValue extracts the value for a key from the header's Python dict
// literal. Values are either quoted strings, booleans, or a parenthesized
// tuple.
func dictValue(header, key string) (string, error) {
	idx := strings.Index(header, "'"+key+"'")
	if idx < 0 {
		return "", chonkerrors.ErrNotNumpy
	}
	rest := header[idx+len(key)+2:]
	colon := strings.Index(rest, ":")
	if colon < 0 {
		return "", chonkerrors.ErrNotNumpy
	}
	rest = strings.TrimLeft(rest[colon+1:], " ")
	switch {
	case strings.HasPrefix(rest, "'"):
		end := strings.Index(rest[1:], "'")
		if end < 0 {
			return "", chonkerrors.ErrNotNumpy
		}
		return rest[1 : 1+end], nil
	case strings.HasPrefix(rest, "("):
		end := strings.Index(rest, ")")
		if end < 0 {
			return "", chonkerrors.ErrNotNumpy
		}
		return rest[:end+1], nil
	default:
		end := strings.IndexAny(rest, ",}")
		if end < 0 {
			return "", chonkerrors.ErrNotNumpy
		}
		return strings.TrimSpace(rest[:end]), nil
	}
}
