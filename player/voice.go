package player

import (
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/bwmarrin/discordgo"
	"layeh.com/gopus"
)

// DiscordDialer joins Discord voice channels through a gateway session.
type DiscordDialer struct {
	Session *discordgo.Session
}

func (d *DiscordDialer) Join(guildID, channelID string) (Voice, error) {
	// Reuse the gateway's live connection when it is already in the channel.
	if vc, ok := d.Session.VoiceConnections[guildID]; ok && vc != nil && vc.ChannelID == channelID {
		return &discordVoice{vc: vc}, nil
	}
	vc, err := d.Session.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, err
	}
	return &discordVoice{vc: vc}, nil
}

// discordVoice streams audio over one discordgo voice connection: the source
// stream is decoded to PCM by ffmpeg and sent as Opus frames.
type discordVoice struct {
	vc *discordgo.VoiceConnection
}

func (v *discordVoice) Disconnect() error {
	return v.vc.Disconnect()
}

func (v *discordVoice) Play(stream io.ReadCloser, stop <-chan struct{}) error {
	defer stream.Close()

	vc := v.vc
	if !vc.Ready {
		for i := 0; i < 20; i++ {
			time.Sleep(250 * time.Millisecond)
			if vc.Ready {
				break
			}
		}
		if !vc.Ready {
			return fmt.Errorf("voice connection never became ready")
		}
	}

	vc.Speaking(true)
	defer vc.Speaking(false)

	cmd := exec.Command("ffmpeg",
		"-i", "pipe:0",
		"-f", "s16le",
		"-ar", "48000",
		"-ac", "2",
		"pipe:1",
	)
	cmd.Stdin = stream

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return err
	}
	defer func() {
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
		cmd.Wait()
	}()

	encoder, err := gopus.NewEncoder(48000, 2, gopus.Audio)
	if err != nil {
		return err
	}

	pcmBuffer := make([]byte, 3840)
	pcmCache := []int16{}

	for {
		select {
		case <-stop:
			return nil
		default:
		}

		n, err := stdout.Read(pcmBuffer)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		for i := 0; i+1 < n; i += 2 {
			sample := int16(pcmBuffer[i]) | int16(pcmBuffer[i+1])<<8
			pcmCache = append(pcmCache, sample)
		}

		for len(pcmCache) >= 960*2 { // 960 samples per channel, 2 channels
			frame := pcmCache[:960*2]
			pcmCache = pcmCache[960*2:]

			opusFrame, err := encoder.Encode(frame, 960, 4000)
			if err != nil {
				return err
			}

			if len(opusFrame) > 0 {
				select {
				case vc.OpusSend <- opusFrame:
				case <-time.After(100 * time.Millisecond):
					return fmt.Errorf("timeout sending opus frame")
				case <-stop:
					return nil
				}
			}
		}
	}
}
