package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const wavHeaderSize = 44

// EncodeWAV wraps raw single-channel PCM samples in a RIFF/WAVE container so
// a captured clip can be submitted as a regular audio file. Only linear16 is
// supported.
func EncodeWAV(pcm []byte, encoding EncodingInfo) ([]byte, error) {
	if encoding.IsZero() {
		encoding = GetDefaultEncodingInfo()
	}
	if encoding.Format != EncodingLinear16 {
		return nil, fmt.Errorf("unsupported encoding format: %s", encoding.Format.Name())
	}

	const channels = 1
	bytesPerSample := encoding.Format.ByteSize()
	blockAlign := channels * bytesPerSample
	byteRate := encoding.SampleRate * blockAlign

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+len(pcm)))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(encoding.SampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(8*bytesPerSample))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes(), nil
}
