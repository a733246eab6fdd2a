package gguf

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"syscall"
)

// LoadFile maps a GGUF file into memory and parses header, metadata and
// tensor infos. Tensor data stays mmap'd; callers dequantize on demand.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size < 24 {
		return nil, io.ErrUnexpectedEOF
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap failed: %w", err)
	}

	file := &File{
		Data: data,
		KV:   make(map[string]interface{}),
	}

	offset := uint64(0)

	file.Header.Magic = binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	if file.Header.Magic != GGUFMagic {
		return nil, ErrInvalidMagic{Magic: file.Header.Magic}
	}

	file.Header.Version = binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	if file.Header.Version < 2 || file.Header.Version > 3 {
		return nil, ErrUnsupportedVersion{Version: file.Header.Version}
	}

	file.Header.TensorCount = binary.LittleEndian.Uint64(data[offset:])
	offset += 8
	file.Header.KVCount = binary.LittleEndian.Uint64(data[offset:])
	offset += 8

	for i := uint64(0); i < file.Header.KVCount; i++ {
		key, n, err := readString(data, offset)
		if err != nil {
			return nil, err
		}
		offset += n

		if offset+4 > uint64(len(data)) {
			return nil, io.ErrUnexpectedEOF
		}
		valType := MetadataValueType(binary.LittleEndian.Uint32(data[offset:]))
		offset += 4

		val, n, err := readValue(data, offset, valType)
		if err != nil {
			return nil, fmt.Errorf("metadata key %q: %w", key, err)
		}
		offset += n

		file.KV[key] = val
	}

	for i := uint64(0); i < file.Header.TensorCount; i++ {
		name, n, err := readString(data, offset)
		if err != nil {
			return nil, err
		}
		offset += n

		ndims := binary.LittleEndian.Uint32(data[offset:])
		offset += 4

		dims := make([]uint64, ndims)
		for j := uint32(0); j < ndims; j++ {
			dims[j] = binary.LittleEndian.Uint64(data[offset:])
			offset += 8
		}

		typ := GGMLType(binary.LittleEndian.Uint32(data[offset:]))
		offset += 4

		tensorOffset := binary.LittleEndian.Uint64(data[offset:])
		offset += 8

		file.Tensors = append(file.Tensors, &TensorInfo{
			Name:       name,
			Dimensions: dims,
			Type:       typ,
			Offset:     tensorOffset,
		})
	}

	// Tensor data starts at the next alignment boundary after the header
	// block. Alignment defaults to 32 unless general.alignment says otherwise.
	alignment := uint64(32)
	if v, ok := file.Uint("general.alignment"); ok && v > 0 {
		alignment = uint64(v)
	}
	if pad := offset % alignment; pad != 0 {
		offset += alignment - pad
	}
	file.DataOffset = offset

	for _, t := range file.Tensors {
		abs := offset + t.Offset
		if abs > uint64(len(data)) {
			return nil, fmt.Errorf("tensor %s: offset out of bounds", t.Name)
		}
		t.Data = data[abs:]
	}

	return file, nil
}

func (f *File) Close() error {
	return syscall.Munmap(f.Data)
}

func readString(data []byte, offset uint64) (string, uint64, error) {
	if offset+8 > uint64(len(data)) {
		return "", 0, io.ErrUnexpectedEOF
	}
	length := binary.LittleEndian.Uint64(data[offset:])
	if offset+8+length > uint64(len(data)) {
		return "", 0, io.ErrUnexpectedEOF
	}
	return string(data[offset+8 : offset+8+length]), 8 + length, nil
}

func readValue(data []byte, offset uint64, typ MetadataValueType) (interface{}, uint64, error) {
	switch typ {
	case MetadataUint8:
		return data[offset], 1, nil
	case MetadataInt8:
		return int8(data[offset]), 1, nil
	case MetadataUint16:
		return binary.LittleEndian.Uint16(data[offset:]), 2, nil
	case MetadataInt16:
		return int16(binary.LittleEndian.Uint16(data[offset:])), 2, nil
	case MetadataUint32:
		return binary.LittleEndian.Uint32(data[offset:]), 4, nil
	case MetadataInt32:
		return int32(binary.LittleEndian.Uint32(data[offset:])), 4, nil
	case MetadataFloat32:
		return math.Float32frombits(binary.LittleEndian.Uint32(data[offset:])), 4, nil
	case MetadataBool:
		return data[offset] != 0, 1, nil
	case MetadataString:
		return readString(data, offset)
	case MetadataArray:
		elemType := MetadataValueType(binary.LittleEndian.Uint32(data[offset:]))
		count := binary.LittleEndian.Uint64(data[offset+4:])
		read := uint64(12)
		cur := offset + 12

		arr := make([]interface{}, 0, count)
		for i := uint64(0); i < count; i++ {
			val, n, err := readValue(data, cur, elemType)
			if err != nil {
				return nil, 0, err
			}
			arr = append(arr, val)
			cur += n
			read += n
		}
		return arr, read, nil
	case MetadataUint64:
		return binary.LittleEndian.Uint64(data[offset:]), 8, nil
	case MetadataInt64:
		return int64(binary.LittleEndian.Uint64(data[offset:])), 8, nil
	case MetadataFloat64:
		return math.Float64frombits(binary.LittleEndian.Uint64(data[offset:])), 8, nil
	default:
		return nil, 0, fmt.Errorf("unsupported metadata type: %d", typ)
	}
}
