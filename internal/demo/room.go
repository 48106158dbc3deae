package demo

import (
	"strings"

	"frontdoor/pkg/doortypes"
	"frontdoor/pkg/house"
)

// Room holds commands that act on the channel they are invoked in.
type Room struct{}

// Commands implements house.Module.
func (Room) Commands() []*house.Registration {
	meta := func(description string, aliases ...string) doortypes.Metadata {
		return doortypes.Metadata{
			Permission:      PermRoom,
			Description:     description,
			Aliases:         aliases,
			RequiresChannel: true,
		}
	}

	return []*house.Registration{
		house.Define("shout", meta("Send a message to everyone in the room", "all")).
			With(house.Glob("message")).
			Handle(func(inv doortypes.Invoker, ch doortypes.Channel, message string) {
				doortypes.Sendf(ch, "[%s] %s", inv.Name(), message)
			}),

		house.Define("members", meta("List the room members", "who")).
			Handle(func(inv doortypes.Invoker, ch doortypes.Channel) {
				var names []string
				for m := range ch.Members() {
					names = append(names, m.Name())
				}
				if len(names) == 0 {
					inv.SendMessage("nobody is here")
					return
				}
				doortypes.Sendf(inv, "%d in %s: %s", ch.MemberCount(), ch.Name(), strings.Join(names, ", "))
			}),

		house.Define("room", meta("Join or leave the room")).
			Branch("join", func(inv doortypes.Invoker, ch doortypes.Channel) {
				ch.AddMember(inv)
				doortypes.Sendf(ch, "%s joined", inv.Name())
			}).
			Branch("leave", func(inv doortypes.Invoker, ch doortypes.Channel) {
				doortypes.Sendf(ch, "%s left", inv.Name())
				ch.RemoveMember(inv)
			}),
	}
}
