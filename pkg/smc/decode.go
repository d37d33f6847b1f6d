package smc

import (
	"encoding/binary"
	"fmt"
	"math"
)

func decodeFloat(b []byte) (float64, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("incorrect data length %d!=4", len(b))
	}
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b))), nil
}

func decodeInt16(b []byte) (int16, error) {
	if len(b) != 2 {
		return 0, fmt.Errorf("incorrect data length %d!=2", len(b))
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

func decodeUint16(b []byte) (uint16, error) {
	if len(b) != 2 {
		return 0, fmt.Errorf("incorrect data length %d!=2", len(b))
	}
	return binary.LittleEndian.Uint16(b), nil
}

func decodeUint8(b []byte) (uint8, error) {
	if len(b) != 1 {
		return 0, fmt.Errorf("incorrect data length %d!=1", len(b))
	}
	return b[0], nil
}
