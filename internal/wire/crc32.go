package wire

import "hash/crc32"

// ieeeTable is the IEEE 802.3 CRC-32 polynomial (0xEDB88320, reflected)
// with the exact parameters Ethernet requires: initial value 0xFFFFFFFF,
// final XOR 0xFFFFFFFF. This is precisely stdlib's "IEEE" CRC-32 variant.
var ieeeTable = crc32.MakeTable(crc32.IEEE)

// CRC32 computes the IEEE 802.3 frame check sequence over b.
func CRC32(b []byte) uint32 {
	return crc32.Checksum(b, ieeeTable)
}
