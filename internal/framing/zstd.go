package framing

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

func mustNewEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func mustNewDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
		zstd.WithDecoderMaxMemory(MaxPacket),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

var encPool = sync.Pool{New: func() any { return mustNewEncoder() }}

var decPool = sync.Pool{New: func() any { return mustNewDecoder() }}

func compress(dst, data []byte) []byte {
	enc := encPool.Get().(*zstd.Encoder)
	defer encPool.Put(enc)
	return enc.EncodeAll(data, dst)
}

func decompress(data []byte) ([]byte, error) {
	dec := decPool.Get().(*zstd.Decoder)
	defer decPool.Put(dec)
	return dec.DecodeAll(data, nil)
}
