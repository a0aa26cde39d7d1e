package cip

import (
	"encoding/binary"
	"os"

	"github.com/shukubooks/shuku/pkg/errcodes"
	"golang.org/x/text/encoding/charmap"
)

// MOBI files are Palm databases: a record index up front, a PalmDoc/MOBI
// header in record 0, then LZ77-compressed text records.

const (
	palmNumRecordsOffset  = 76
	palmRecordIndexOffset = 78
	palmRecordIndexEntry  = 8

	compressionNone    = 1
	compressionPalmDoc = 2

	encodingCP1252 = 1252
	encodingUTF8   = 65001
)

type MobiReader struct {
	records     [][]byte
	compression uint16
	textRecords int
	encoding    uint32
}

func OpenMobi(path string) (*MobiReader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errcodes.InvalidMobiFile()
	}
	if len(data) < palmRecordIndexOffset {
		return nil, errcodes.InvalidMobiFile()
	}

	typeCreator := string(data[60:68])
	if typeCreator != "BOOKMOBI" && typeCreator != "TEXtREAd" {
		return nil, errcodes.InvalidMobiFile()
	}

	numRecords := int(binary.BigEndian.Uint16(data[palmNumRecordsOffset:]))
	if numRecords == 0 || len(data) < palmRecordIndexOffset+numRecords*palmRecordIndexEntry {
		return nil, errcodes.InvalidMobiFile()
	}

	offsets := make([]int, numRecords+1)
	for i := 0; i < numRecords; i++ {
		offsets[i] = int(binary.BigEndian.Uint32(data[palmRecordIndexOffset+i*palmRecordIndexEntry:]))
	}
	offsets[numRecords] = len(data)

	records := make([][]byte, numRecords)
	for i := 0; i < numRecords; i++ {
		if offsets[i] > offsets[i+1] || offsets[i+1] > len(data) {
			return nil, errcodes.InvalidMobiFile()
		}
		records[i] = data[offsets[i]:offsets[i+1]]
	}

	header := records[0]
	if len(header) < 12 {
		return nil, errcodes.InvalidMobiFile()
	}

	reader := &MobiReader{
		records:     records,
		compression: binary.BigEndian.Uint16(header[0:]),
		textRecords: int(binary.BigEndian.Uint16(header[8:])),
		encoding:    encodingCP1252,
	}

	// The MOBI extension of the PalmDoc header carries the text encoding.
	if len(header) >= 32 && string(header[16:20]) == "MOBI" {
		reader.encoding = binary.BigEndian.Uint32(header[28:])
	}

	if reader.compression != compressionNone && reader.compression != compressionPalmDoc {
		return nil, errcodes.InvalidMobiFile()
	}
	if reader.textRecords >= len(records) {
		reader.textRecords = len(records) - 1
	}

	return reader, nil
}

// ReadAll decompresses and decodes the entire text stream.
func (r *MobiReader) ReadAll() (string, error) {
	var raw []byte
	for i := 1; i <= r.textRecords; i++ {
		record := r.records[i]
		if r.compression == compressionPalmDoc {
			raw = append(raw, decompressPalmDoc(record)...)
		} else {
			raw = append(raw, record...)
		}
	}

	if r.encoding == encodingUTF8 {
		return string(raw), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		// Decode errors are replaced, not fatal; fall back to the raw bytes.
		return string(raw), nil
	}
	return string(decoded), nil
}

// decompressPalmDoc expands the PalmDoc byte-pair LZ77 scheme. Malformed
// back-references truncate rather than error: the text is only scanned for a
// marker, never rendered.
func decompressPalmDoc(data []byte) []byte {
	out := make([]byte, 0, len(data)*2)
	for i := 0; i < len(data); {
		c := data[i]
		i++
		switch {
		case c == 0x00:
			out = append(out, c)
		case c <= 0x08:
			n := int(c)
			if i+n > len(data) {
				n = len(data) - i
			}
			out = append(out, data[i:i+n]...)
			i += n
		case c <= 0x7f:
			out = append(out, c)
		case c <= 0xbf:
			if i >= len(data) {
				return out
			}
			pair := int(c&0x3f)<<8 | int(data[i])
			i++
			distance := pair >> 3
			length := pair&0x07 + 3
			for j := 0; j < length; j++ {
				pos := len(out) - distance
				if pos < 0 {
					break
				}
				out = append(out, out[pos])
			}
		default:
			out = append(out, ' ', c^0x80)
		}
	}
	return out
}
