/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/modelrace/internal"
	"github.com/mikeb26/modelrace/leaderboard"
	"github.com/mikeb26/modelrace/provider"
)

type RaceSubCommand string

const (
	RaceAboutCmd  RaceSubCommand = "about"
	RaceHelpCmd   RaceSubCommand = "help"
	RaceModelsCmd RaceSubCommand = "models"
	RaceBoardCmd  RaceSubCommand = "leaderboard"
)

var raceSubCmdHdlrs = map[RaceSubCommand]CmdHandler{
	RaceAboutCmd:  raceAboutCmdHandler,
	RaceHelpCmd:   raceHelpCmdHandler,
	RaceModelsCmd: raceModelsCmdHandler,
	RaceBoardCmd:  raceBoardCmdHandler,
}

func raceCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := raceHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := raceSubCmdHdlrs[RaceSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

//go:embed about.txt
var aboutText string

func raceAboutCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}

	resp.Data.Content = truncateContent(aboutText)

	return resp
}

//go:embed help.md
var helpText string

func raceHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}

	resp.Data.Content = truncateContent(helpText)

	return resp
}

func raceModelsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}

	catalog := provider.NewClient().Catalog()
	var sb strings.Builder
	sb.WriteString("Available models:\n")
	for _, m := range catalog {
		sb.WriteString(fmt.Sprintf("  %v - %v\n", m.ID, m.DisplayName))
	}

	resp.Data.Content = fmt.Sprintf("```\n%s```", truncateContent(sb.String()))

	return resp
}

func raceBoardCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
	broadcast := false
	data := inter.ApplicationCommandData()
	if len(data.Options) > 0 {
		for _, opt := range data.Options[0].Options {
			if opt.Name == "broadcast" {
				broadcast = opt.BoolValue()
			}
		}
	}

	store := leaderboard.NewS3Store(internal.ResultsBucket,
		internal.ResultsKey)
	if err := store.Init(ctx); err != nil {
		log.Printf("racebot.board: failed to init results store: %v", err)
		resp.Data.Content = "The leaderboard is unavailable right now; please try again later"
		return resp
	}
	entries, err := store.Load(ctx)
	if err != nil {
		log.Printf("racebot.board: failed to load results: %v", err)
		resp.Data.Content = "The leaderboard is unavailable right now; please try again later"
		return resp
	}

	board := leaderboard.BuildBoardOutput(leaderboard.Build(entries))
	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```", truncateContent(board))

	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
