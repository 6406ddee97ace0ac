package pix

import "fmt"

const (
	crcPoly = 0x1021
	crcInit = 0xFFFF
)

// CRC16 computes CRC16-CCITT (poly 0x1021, init 0xFFFF, no reflection, no final XOR).
func CRC16(data []byte) uint16 {
	crc := uint16(crcInit)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for range 8 {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ crcPoly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// FormatCRC renders a checksum as four uppercase hex digits.
func FormatCRC(crc uint16) string {
	return fmt.Sprintf("%04X", crc)
}
