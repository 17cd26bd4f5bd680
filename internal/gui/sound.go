package gui

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/san-kum/spherebounce/internal/audio"
)

// sound plays contact voices through the default output device.
type sound struct {
	proc   *audio.Processor
	stream *portaudio.Stream
}

func startSound() (*sound, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audio init: %w", err)
	}
	proc := audio.NewProcessor()
	// Output only. Duplex streams often fail on Linux when devices differ.
	stream, err := portaudio.OpenDefaultStream(0, 2, audio.SampleRate, audio.BufferSize, proc.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("audio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("audio start: %w", err)
	}
	return &sound{proc: proc, stream: stream}, nil
}

func (s *sound) Close() {
	s.stream.Stop()
	s.stream.Close()
	portaudio.Terminate()
}
