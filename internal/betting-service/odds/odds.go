package odds

import (
	"encoding/binary"
	"hash/fnv"
)

// multipliers é o conjunto fixo de odds possíveis.
var multipliers = [...]int{2, 3, 4}

// Multiplier resolve a odd de um piloto em um evento.
// Função pura e estável: o mesmo par (evento, piloto) sempre produz a mesma
// odd, tanto na listagem de eventos quanto no pagamento da liquidação.
func Multiplier(eventID, driverID int) int {
	h := fnv.New32a()

	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(int64(eventID)))
	binary.BigEndian.PutUint64(buf[8:16], uint64(int64(driverID)))
	_, _ = h.Write(buf[:])

	// o módulo é feito ainda em uint32; converter antes deixaria o índice
	// negativo em plataformas de int de 32 bits
	return multipliers[h.Sum32()%uint32(len(multipliers))]
}
