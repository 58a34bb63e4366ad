// Say speaks text to a WAV file with the formantd synthesizer, without
// running the daemon.
//
// Usage:
//
//	say [flags] text...
//	echo "hello world" | say -o hello.wav
//	say -phonemes -o hi.wav "h@l'@U"
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/up-zero/gotool/fileutil"
	"github.com/up-zero/gotool/mediautil"

	"github.com/nadzzz/formantd/internal/config"
	"github.com/nadzzz/formantd/internal/textnorm"
	"github.com/nadzzz/formantd/internal/tts"
	"github.com/nadzzz/formantd/internal/tts/formant"
)

func main() {
	configFile := flag.String("config", "", "path to config file for voice settings")
	output := flag.String("o", "say.wav", `output WAV file, "-" for stdout`)
	voice := flag.String("voice", "", "voice name (default voice when empty)")
	phonemes := flag.Bool("phonemes", false, "treat the input as a phoneme string")
	printPhonemes := flag.Bool("print-phonemes", false, "print the transcription to stderr")
	rate := flag.Int("rate", 0, "output sample rate in Hz (0 keeps the synthesis rate)")
	mono := flag.Bool("mono", false, "write a single channel")
	flag.Parse()

	if err := run(*configFile, *output, *voice, *phonemes, *printPhonemes, *rate, *mono); err != nil {
		fmt.Fprintf(os.Stderr, "say: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, output, voice string, phonemes, printPhonemes bool, rate int, mono bool) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(config.NewHandler(cfg.Logging, os.Stderr)))

	text, err := input(flag.Args())
	if err != nil {
		return err
	}
	if !phonemes {
		text = textnorm.Fold(text)
	}
	if text == "" {
		return fmt.Errorf("nothing to say")
	}

	synth, err := formant.New(formant.Options{Voices: cfg.Synth.VoiceSessionConfigs()})
	if err != nil {
		return err
	}
	defer synth.Close()

	res, err := synth.Synthesize(context.Background(), text, tts.SynthesizeOpts{Voice: voice, Phonemes: phonemes})
	if err != nil {
		return err
	}
	if printPhonemes {
		fmt.Fprintln(os.Stderr, res.Phonemes)
	}

	audio := res.Audio
	channels := res.Channels
	if mono {
		channels = 1
	}
	if (rate > 0 && rate != res.SampleRate) || channels != res.Channels {
		if rate <= 0 {
			rate = res.SampleRate
		}
		if audio, err = mediautil.ReformatWavBytes(audio, rate, channels, 16); err != nil {
			return fmt.Errorf("reformatting audio: %w", err)
		}
	}

	if output == "-" {
		_, err = os.Stdout.Write(audio)
		return err
	}
	if err := fileutil.FileSave(output, audio); err != nil {
		return fmt.Errorf("saving %s: %w", output, err)
	}
	slog.Info("wrote speech", "path", output, "bytes", len(audio), "duration", res.Duration)
	return nil
}

// input joins the arguments, or reads stdin when there are none.
func input(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(b), nil
}
