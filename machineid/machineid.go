// Package machineid derives a 16-bit machine ID for sonyflake generators
// from the host name. Generators default to machine ID 0; deployments that
// run more than one generator pass FromHostname (or an explicitly assigned
// value) as sonyflake.Config.MachineID:
//
//	g := sonyflake.NewGenerator(sonyflake.Config{MachineID: uint64(machineid.FromHostname())})
//
// Two hosts can hash to the same value; deployments that need a guarantee
// should assign IDs explicitly.
package machineid

import (
	"crypto/rand"
	"encoding/binary"
	"hash/fnv"
	"os"
)

const mask = 1<<16 - 1

// FromHostname hashes os.Hostname with FNV-1a. If the host name is
// unavailable it falls back to a random value.
func FromHostname() uint16 {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		return Random()
	}
	return FromString(hostname)
}

// FromString hashes name with FNV-1a and keeps the low 16 bits.
func FromString(name string) uint16 {
	hash := fnv.New64a()
	hash.Write([]byte(name))
	return uint16(hash.Sum64() & mask)
}

// Random returns a machine ID read from crypto/rand.
func Random() uint16 {
	var b [2]byte
	_, _ = rand.Read(b[:]) // best effort, zero on failure
	return binary.BigEndian.Uint16(b[:])
}
