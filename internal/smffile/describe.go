package smffile

import (
	"github.com/leandrodaf/midiplay/sdk/contracts"
)

// Describe logs the header and the non-note content of a song with the
// absolute tick of each event. Lyrics are skipped.
func Describe(song *contracts.Song, log contracts.Logger) {
	log.Info("header",
		log.Field().Int("format", int(song.Format)),
		log.Field().Int("ppqn", int(song.PPQN)),
		log.Field().Int("tracks", len(song.Tracks)))

	for i, track := range song.Tracks {
		log.Info("track", log.Field().Int("track", i), log.Field().Int("events", len(track)))

		var tick uint64
		for _, ev := range track {
			tick += uint64(ev.Delta)
			switch ev.Kind {
			case contracts.ChannelVoice:
			case contracts.Metadata:
				if ev.MetaType == contracts.MetaLyric {
					continue
				}
				log.Info(contracts.MetaName(ev.MetaType),
					log.Field().Uint64("tick", tick),
					log.Field().String("text", ev.Text))
			case contracts.SysEx, contracts.Escape:
				log.Info(ev.Kind.String(),
					log.Field().Uint64("tick", tick),
					log.Field().Bytes("data", ev.Raw))
			default:
				log.Info("Meta",
					log.Field().Uint64("tick", tick),
					log.Field().String("event", ev.String()))
			}
		}
	}
}
