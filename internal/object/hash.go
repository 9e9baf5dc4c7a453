package object

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/mabhi256/jvmgo/internal/descriptor"
)

// Hash computes the handle's default identity hash: hashing an instance
// hashes each field slot in declaration order, hashing an array hashes its
// elements, then the resulting 64-bit hash is folded into 32 bits by
// XOR-ing its two halves.
func Hash(h *Handle) int32 {
	fnvHash := fnv.New64a()
	if h.rec.arrPrim != nil || h.rec.arrRef != nil {
		hashArrayInto(fnvHash, h)
	} else {
		hashInstanceInto(fnvHash, h)
	}
	sum := fnvHash.Sum64()
	return int32(uint32(sum>>32) ^ uint32(sum))
}

func hashInstanceInto(w hasher, h *Handle) {
	for _, v := range h.rec.instance {
		hashValueInto(w, v)
	}
}

func hashArrayInto(w hasher, h *Handle) {
	if h.rec.arrRef != nil {
		for _, ref := range h.rec.arrRef {
			if ref == nil {
				w.Write([]byte{0})
				continue
			}
			var buf [4]byte
			binary.BigEndian.PutUint32(buf[:], uint32(Hash(ref)))
			w.Write(buf[:])
		}
		return
	}
	for _, v := range h.rec.arrPrim {
		hashValueInto(w, v)
	}
}

// hasher is the subset of hash.Hash64 the fold functions need.
type hasher interface {
	Write(p []byte) (int, error)
}

func hashValueInto(w hasher, v Value) {
	var buf [8]byte
	switch v.Kind {
	case descriptor.KindObject, descriptor.KindArray:
		if v.Ref == nil {
			w.Write([]byte{0})
			return
		}
		binary.BigEndian.PutUint32(buf[:4], uint32(Hash(v.Ref)))
		w.Write(buf[:4])
	case descriptor.KindFloat:
		binary.BigEndian.PutUint32(buf[:4], math.Float32bits(v.Float))
		w.Write(buf[:4])
	case descriptor.KindDouble:
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v.Double))
		w.Write(buf[:])
	default:
		binary.BigEndian.PutUint64(buf[:], uint64(v.Int))
		w.Write(buf[:])
	}
}
