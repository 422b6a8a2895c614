// Package codec converts between encoded audio containers and the
// engine's mono float sample buffers. WAV, MP3 and Ogg Vorbis input
// is supported; output is always 16-bit PCM WAV.
package codec
