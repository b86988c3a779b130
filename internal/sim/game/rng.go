package game

import "hash/fnv"

// combatSeed derives a per-engagement seed from the game seed, the turn and
// both participant ids, so resolution is repeatable for the same snapshot
// and pairing but differs across engagements.
func combatSeed(gameSeed int64, turn int, attackerID, defenderID string) int64 {
	h := fnv.New64a()
	var b [8]byte
	putU64(&b, uint64(gameSeed))
	h.Write(b[:])
	putU64(&b, uint64(turn))
	h.Write(b[:])
	h.Write([]byte(attackerID))
	h.Write([]byte{0})
	h.Write([]byte(defenderID))
	return int64(h.Sum64())
}

func putU64(b *[8]byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
