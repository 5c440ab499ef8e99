package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrPlayerBankrupt   = errors.New("player is bankrupt")
	ErrInvalidRoster    = errors.New("roster must have between 2 and 8 players")

	ErrWrongPhase        = errors.New("action is not allowed in the current phase")
	ErrAlreadyRolled     = errors.New("dice already rolled this turn")
	ErrDiceNotConsumed   = errors.New("dice must be rolled before ending the turn")
	ErrAwaitingDecision  = errors.New("a purchase decision is pending")
	ErrNotInJail         = errors.New("player is not in jail")
	ErrNoJailFreeCard    = errors.New("player has no get out of jail free card")
	ErrNeedsLiquidation  = errors.New("player must liquidate assets to cover a debt")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")

	ErrInvalidCell       = errors.New("invalid cell")
	ErrNotPurchasable    = errors.New("cell cannot be purchased")
	ErrAlreadyOwned      = errors.New("property is already owned")
	ErrNotOwner          = errors.New("player does not own the property")
	ErrNoMonopoly        = errors.New("player does not own the whole group")
	ErrNotBuildable      = errors.New("cell does not accept construction")
	ErrBuildingLimit     = errors.New("building limit reached")
	ErrUnevenBuilding    = errors.New("buildings must be spread evenly across the group")
	ErrAlreadyBuilt      = errors.New("already built this turn")
	ErrNoBuildings       = errors.New("property has no buildings")
	ErrPropertyMortgaged = errors.New("property is mortgaged")
	ErrNotMortgaged      = errors.New("property is not mortgaged")
	ErrGroupHasBuildings = errors.New("group still has buildings")

	ErrAuctionActive      = errors.New("an auction is already active")
	ErrNoAuction          = errors.New("no auction is active")
	ErrNotAuctionBidder   = errors.New("player cannot bid in this auction")
	ErrHighBidderDecline  = errors.New("the highest bidder cannot withdraw")
	ErrAuctionNotFinished = errors.New("auction time has not run out")
	ErrAuctionExpired     = errors.New("auction time has run out")

	ErrTradeNotFound     = errors.New("trade not found")
	ErrTradeClosed       = errors.New("trade is no longer active")
	ErrNotTradeMember    = errors.New("player is not part of the trade")
	ErrInvalidTrade      = errors.New("invalid trade")
	ErrNoPendingOffer    = errors.New("no pending offer")
	ErrTradeExpired      = errors.New("trade offer expired")
	ErrTradeWithSelf     = errors.New("cannot trade with yourself")
	ErrNotOfferRecipient = errors.New("only the recipient can respond to the offer")
)
