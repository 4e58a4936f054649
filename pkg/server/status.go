package server

import (
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/StoreStation/blockwright/pkg/protocol"
	"github.com/StoreStation/blockwright/pkg/protoerr"
)

// ProtocolVersion is the wire protocol version this server reports in
// its status response and expects a login client to have negotiated.
const ProtocolVersion = 765

type statusVersion struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

type statusPlayers struct {
	Max    int `json:"max"`
	Online int `json:"online"`
}

type statusText struct {
	Text string `json:"text"`
}

type statusResponse struct {
	Version statusVersion `json:"version"`
	Players statusPlayers `json:"players"`
	Description statusText `json:"description"`
}

func (c *conn) handleStatus(id int32, body []byte) error {
	switch id {
	case 0x00:
		return c.sendStatusResponse()
	case 0x01:
		return c.sendPong(body)
	default:
		return errors.Wrapf(protoerr.Malformed, "server: unexpected status packet id %d", id)
	}
}

func (c *conn) sendStatusResponse() error {
	resp := statusResponse{
		Version:     statusVersion{Name: "blockwright 1.20.4", Protocol: ProtocolVersion},
		Players:     statusPlayers{Max: c.srv.cfg.MaxPlayers, Online: c.srv.onlineCount()},
		Description: statusText{Text: c.srv.cfg.MOTD},
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	payload := protocol.WriteVarInt(nil, int32(c.srv.pk.StatusResponse))
	payload = protocol.WriteString(payload, string(data))
	return c.send(payload)
}

func (c *conn) sendPong(body []byte) error {
	token, _, err := protocol.ReadInt64(body)
	if err != nil {
		return err
	}
	payload := protocol.WriteVarInt(nil, 0x01)
	payload = protocol.WriteInt64(payload, token)
	return c.send(payload)
}
