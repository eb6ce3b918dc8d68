package codec

import (
	"math/big"

	"github.com/cockroachdb/apd/v3"

	"github.com/maduhu/hazelcast/internal/proto"
	"github.com/maduhu/hazelcast/internal/proto/bits"
)

// EncodeDecimal appends one frame holding an int32 scale followed by the
// unscaled value in big-endian two's complement.
func EncodeDecimal(m *proto.Message, d apd.Decimal) {
	unscaled := d.Coeff.MathBigInt()
	if d.Negative {
		unscaled = new(big.Int).Neg(unscaled)
	}
	body := twosComplementBytes(unscaled)
	content := make([]byte, bits.Int32SizeInBytes+len(body))
	bits.WriteInt32(content, 0, -d.Exponent)
	copy(content[bits.Int32SizeInBytes:], body)
	m.Add(proto.NewFrame(content))
}

func DecodeDecimal(it *proto.ForwardIterator) (apd.Decimal, error) {
	f, err := it.Next()
	if err != nil {
		return apd.Decimal{}, err
	}
	if len(f.Content) <= bits.Int32SizeInBytes {
		return apd.Decimal{}, proto.ErrMalformedStructure
	}
	scale := bits.ReadInt32(f.Content, 0)
	unscaled := bigIntFromTwosComplement(f.Content[bits.Int32SizeInBytes:])

	var d apd.Decimal
	d.Exponent = -scale
	if unscaled.Sign() < 0 {
		d.Negative = true
		unscaled.Neg(unscaled)
	}
	d.Coeff.SetBytes(unscaled.Bytes())
	return d, nil
}

func EncodeNullableDecimal(m *proto.Message, d *apd.Decimal) {
	EncodeNullable(m, d, EncodeDecimal)
}

func DecodeNullableDecimal(it *proto.ForwardIterator) (*apd.Decimal, error) {
	return DecodeNullable(it, DecodeDecimal)
}

func twosComplementBytes(v *big.Int) []byte {
	if v.Sign() >= 0 {
		b := v.Bytes()
		if len(b) == 0 {
			return []byte{0}
		}
		if b[0]&0x80 != 0 {
			// leading zero keeps the sign bit clear
			return append([]byte{0}, b...)
		}
		return b
	}
	n := v.BitLen()/8 + 1
	mod := new(big.Int).Lsh(big.NewInt(1), uint(8*n))
	tc := new(big.Int).Add(mod, v)
	out := make([]byte, n)
	tcb := tc.Bytes()
	copy(out[n-len(tcb):], tcb)
	return out
}

func bigIntFromTwosComplement(b []byte) *big.Int {
	v := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(8*len(b)))
		v.Sub(v, mod)
	}
	return v
}
