/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/bwmarrin/discordgo"
)

// Interaction endpoint credentials come from the environment; this service
// is deployed as a webhook-only bot and holds no gateway session.
var (
	botPubKey ed25519.PublicKey
	botAppId  string
	botToken  string

	client *discordgo.Session
)

type TopLevelCommand string

const (
	RaceCmd   TopLevelCommand = "race"
	UserAgent                 = "modelrace-racebot/0.2.0 (+https://github.com/mikeb26/modelrace)"
)

type CmdHandler func(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	RaceCmd: raceCmdHandler,
}

func interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, botPubKey) {
		log.Printf("racebot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("racebot.int: failed to read request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		log.Printf("racebot.int: failed to unmarshal interaction: err:%v body:%v",
			err, body)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	if inter.Type == discordgo.InteractionPing {
		resp.Type = discordgo.InteractionResponsePong
	} else if inter.Type == discordgo.InteractionApplicationCommand {
		hdlr, ok :=
			topLevelCmdHdlrs[TopLevelCommand(inter.ApplicationCommandData().Name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'",
					inter.ApplicationCommandData().Name),
				Flags: discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(r.Context(), &inter)
		}
	} else {
		log.Printf("racebot.int: unimplemented interaction type %v: inter:%v",
			inter.Type, inter)
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		log.Printf("racebot.int: failed to marshal resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(rawResp); err != nil {
		log.Printf("racebot.int: failed to write resp: err:%v", err)
	}
}

func init() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
}

func loadCredentials() {
	pubKeyText := os.Getenv("RACEBOT_PUBLIC_KEY")
	if pubKeyText == "" {
		log.Fatalf("racebot.init: RACEBOT_PUBLIC_KEY must be set")
	}
	pubKeyBytes, err := hex.DecodeString(pubKeyText)
	if err != nil {
		log.Fatalf("racebot.init: Failed to parse public key: %v", err)
	}
	botPubKey = ed25519.PublicKey(pubKeyBytes)

	botAppId = os.Getenv("RACEBOT_APP_ID")
	botToken = os.Getenv("RACEBOT_TOKEN")
	if botToken != "" {
		client, err = discordgo.New("Bot " + botToken)
		if err != nil {
			log.Fatalf("racebot.init: Failed to initialize discord client: %v",
				err)
		}
	}
}

func registerSlashCommands() {
	// registration requires the bot token; a webhook-only deployment can
	// skip it and rely on an earlier registration
	if client == nil || botAppId == "" {
		return
	}

	raceCmd := &discordgo.ApplicationCommand{
		Name:        string(RaceCmd),
		Description: "Model race commands; try /race help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(RaceHelpCmd),
				Description: "Show usage for race",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(RaceAboutCmd),
				Description: "Show information about modelrace",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(RaceModelsCmd),
				Description: "List the available model catalog",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(RaceBoardCmd),
				Description: "Show the aggregated model leaderboard",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "broadcast",
						Description: "Share with the rest of the channel instead of only to you (default is false)",
						Required:    false,
					},
				},
			},
		},
	}

	cmd, err := client.ApplicationCommandCreate(botAppId, "", raceCmd)
	if err != nil {
		log.Printf("racebot.reg: failed to register %v: %v", raceCmd.Name, err)
		return
	}

	log.Printf("racebot.reg: registered %v(cmdID:%v)", cmd.Name, cmd.ID)
}

func main() {
	loadCredentials()
	go registerSlashCommands()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	log.Printf("racebot.main: starting server on %v:8080", hostname)

	http.HandleFunc("/RaceBot/Interaction", interactionHandler)
	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatalf("racebot.main: Serve failed: %v", err)
	}

	log.Printf("racebot.main: exiting")
}
