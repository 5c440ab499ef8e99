package websocket

import (
	"context"
	"encoding/json"
	"fmt"
)

func (that *Server) registerHandlers() {
	that.handlers["game:state"] = that.handleState

	that.handlers["game:roll"] = that.playerAction(that.session.Roll)
	that.handlers["game:buy"] = that.playerAction(that.session.Buy)
	that.handlers["game:decline"] = that.playerAction(that.session.Decline)
	that.handlers["game:end-turn"] = that.playerAction(that.session.EndTurn)
	that.handlers["jail:pay"] = that.playerAction(that.session.PayJailFine)
	that.handlers["jail:card"] = that.playerAction(that.session.UseJailCard)

	that.handlers["game:build"] = that.cellAction(that.session.Build)
	that.handlers["game:sell"] = that.cellAction(that.session.SellBuilding)
	that.handlers["game:mortgage"] = that.cellAction(that.session.Mortgage)
	that.handlers["game:unmortgage"] = that.cellAction(that.session.Unmortgage)
	that.handlers["game:liquidate"] = that.handleLiquidate

	that.handlers["auction:start"] = that.cellAction(that.session.StartAuction)
	that.handlers["auction:bid"] = that.playerAction(that.session.Bid)
	that.handlers["auction:decline"] = that.playerAction(that.session.DeclineBid)
	that.handlers["auction:end"] = that.playerAction(that.session.EndAuction)

	that.handlers["trade:open"] = that.handleOpenTrade
	that.handlers["trade:offer"] = that.handleProposeTrade
	that.handlers["trade:accept"] = that.tradeAction(that.session.AcceptTrade)
	that.handlers["trade:reject"] = that.tradeAction(that.session.RejectTrade)
	that.handlers["trade:cancel"] = that.tradeAction(that.session.CancelTrade)
}

func (that *Server) handleState(_ context.Context, client *client, _ *Message) error {
	game := that.session.Snapshot()
	if game == nil {
		return ErrNotReady
	}

	client.push(stateMessage(game, nil))

	return nil
}

func (that *Server) playerAction(action func(ctx context.Context, playerID string) error) handler {
	return func(ctx context.Context, _ *client, _ *Message) error {
		return action(ctx, that.session.PlayerID())
	}
}

func (that *Server) cellAction(action func(ctx context.Context, playerID string, cellID int) error) handler {
	return func(ctx context.Context, _ *client, msg *Message) error {
		req, err := decodeRequest(msg)
		if err != nil {
			return err
		}

		if req.CellID == nil {
			return ErrMissingCell
		}

		return action(ctx, that.session.PlayerID(), *req.CellID)
	}
}

func (that *Server) tradeAction(action func(ctx context.Context, playerID, tradeID string) error) handler {
	return func(ctx context.Context, _ *client, msg *Message) error {
		req, err := decodeRequest(msg)
		if err != nil {
			return err
		}

		if req.TradeID == "" {
			return ErrMissingTrade
		}

		return action(ctx, that.session.PlayerID(), req.TradeID)
	}
}

func (that *Server) handleLiquidate(ctx context.Context, _ *client, msg *Message) error {
	req, err := decodeRequest(msg)
	if err != nil {
		return err
	}

	return that.session.Liquidate(ctx, that.session.PlayerID(), req.Amount)
}

func (that *Server) handleOpenTrade(ctx context.Context, client *client, msg *Message) error {
	req, err := decodeRequest(msg)
	if err != nil {
		return err
	}

	if req.TargetID == "" {
		return ErrMissingTarget
	}

	tradeID, err := that.session.OpenTrade(ctx, that.session.PlayerID(), req.TargetID)
	if err != nil {
		return err
	}

	client.push(newMessage(msg.Action, Payload{TradeID: tradeID}))

	return nil
}

func (that *Server) handleProposeTrade(ctx context.Context, _ *client, msg *Message) error {
	req, err := decodeRequest(msg)
	if err != nil {
		return err
	}

	switch {
	case req.TradeID == "":
		return ErrMissingTrade
	case req.Offer == nil:
		return ErrMissingOffer
	}

	return that.session.ProposeTrade(ctx, that.session.PlayerID(), req.TradeID, *req.Offer)
}

func decodeRequest(msg *Message) (Request, error) {
	var req Request
	if len(msg.Payload) == 0 {
		return req, nil
	}

	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return req, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	return req, nil
}
