// Package vorbis is a pure Go lapped-transform audio codec core in the
// style of Ogg Vorbis.
//
// A stream is described by an immutable Setup: sample rate, channel count,
// the short and long block sizes, a mode table and the codebooks. The
// Encoder buffers PCM, chooses block sizes with a transient detector,
// transforms each block with an MDCT and codes the spectrum through the
// stream's SpectralCodec; the Decoder inverts each step and overlap-adds
// the blocks back into PCM, trimming the stream's ends against the packet
// granule positions.
//
// # Basic Usage
//
//	setup, err := vorbis.NewSetup(vorbis.DefaultSetupConfig(44100, 2))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	enc, err := vorbis.NewEncoder(framer, vorbis.EncoderConfig{Setup: setup})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for chunk := range input {
//	    if err := enc.Write(chunk); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	if err := enc.Close(); err != nil {
//	    log.Fatal(err)
//	}
//
// Decoding reads the identification and setup headers from the stream:
//
//	dec, _ := vorbis.NewDecoder(vorbis.DecoderConfig{})
//	err := dec.DecodeAll(framer, func(pcm [][]float32) error {
//	    // pcm[channel][sample]
//	    return nil
//	})
//
// # Collaborators
//
// Floor and residue backends, the psychoacoustic model and the container
// are interfaces (FloorCodec, ResidueCodec, PsyModel, PageFramer). The
// module ships stand-ins for the spectral stage and a simple packet framer
// in its internal packages.
//
// # Thread Safety
//
// A Setup, and the codebooks it holds, may be shared by any number of
// goroutines. Encoder and Decoder instances are NOT safe for concurrent
// use; run one per stream.
package vorbis
