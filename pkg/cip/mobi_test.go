package cip

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/robinjoseph08/golib/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMobi writes a minimal uncompressed BOOKMOBI file with one text record.
func buildMobi(t *testing.T, text string) string {
	t.Helper()

	header := make([]byte, 32)
	binary.BigEndian.PutUint16(header[0:], compressionNone)
	binary.BigEndian.PutUint16(header[8:], 1)
	copy(header[16:20], "MOBI")
	binary.BigEndian.PutUint32(header[28:], encodingUTF8)

	records := [][]byte{header, []byte(text)}

	pdb := make([]byte, palmRecordIndexOffset+len(records)*palmRecordIndexEntry)
	copy(pdb[60:68], "BOOKMOBI")
	binary.BigEndian.PutUint16(pdb[palmNumRecordsOffset:], uint16(len(records)))

	offset := len(pdb)
	for i, record := range records {
		binary.BigEndian.PutUint32(pdb[palmRecordIndexOffset+i*palmRecordIndexEntry:], uint32(offset))
		offset += len(record)
	}
	for _, record := range records {
		pdb = append(pdb, record...)
	}

	path := filepath.Join(t.TempDir(), "book.mobi")
	require.NoError(t, os.WriteFile(path, pdb, 0o644))
	return path
}

func TestExtractFromMobi(t *testing.T) {
	t.Parallel()

	ctx := logger.New().WithContext(context.Background())

	record, err := Extract(ctx, buildMobi(t, sampleCipText))
	require.NoError(t, err)
	assert.Equal(t, "978-7-115-12345-6", record.ISBN)
	assert.Equal(t, "123456", record.CipID)
}

func TestExtractFromMobiNoRecord(t *testing.T) {
	t.Parallel()

	ctx := logger.New().WithContext(context.Background())

	_, err := Extract(ctx, buildMobi(t, "no catalog block here"))
	assert.Error(t, err)
}

func TestOpenMobiBadMagic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.mobi")
	data := make([]byte, 100)
	copy(data[60:68], "NOTAMOBI")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err := OpenMobi(path)
	assert.Error(t, err)
}

func TestOpenMobiTruncated(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "short.mobi")
	require.NoError(t, os.WriteFile(path, []byte("BOOKMOBI"), 0o644))

	_, err := OpenMobi(path)
	assert.Error(t, err)
}

func TestDecompressPalmDoc(t *testing.T) {
	t.Parallel()

	// Back-reference: distance 3, length 3 repeats the three literals.
	data := []byte{'a', 'b', 'c', 0x80, 0x18}
	assert.Equal(t, []byte("abcabc"), decompressPalmDoc(data))

	// 0xc0-range bytes expand to a space plus the unmasked character.
	assert.Equal(t, []byte(" A"), decompressPalmDoc([]byte{0xc1}))

	// Literal run: 0x02 copies the next two bytes verbatim.
	assert.Equal(t, []byte{0xff, 0x01}, decompressPalmDoc([]byte{0x02, 0xff, 0x01}))
}
