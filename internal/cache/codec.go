package cache

import (
	"github.com/arnegrim/recurdns/internal/bufreader"
	"github.com/arnegrim/recurdns/internal/dnsname"
	"github.com/arnegrim/recurdns/internal/rrclass"
)

// encodeKeyName stores a record's name as its uncompressed wire encoding,
// the same unambiguous form dnsname.Name.Key uses as a map key.
func encodeKeyName(n dnsname.Name) ([]byte, error) {
	return dnsname.Encode(n)
}

func decodeKeyName(wire []byte) (dnsname.Name, error) {
	return dnsname.Decode(bufreader.New(wire))
}

func rrClassOf(c uint16) rrclass.Class {
	return rrclass.Class(c)
}
