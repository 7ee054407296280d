package httpapi

import (
	"net/netip"
	"strings"

	"DiamondQuest/internal/arena"
	"DiamondQuest/internal/claims"
	"DiamondQuest/internal/collector"
	"DiamondQuest/internal/model"

	"github.com/gofiber/fiber/v2"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
}

type selectRequest struct {
	CandidateID string `json:"candidateId"`
}

type exchangeRequest struct {
	Option string `json:"option"`
	Rate   int    `json:"rate"`
}

// reply writes v with the HTTP status derived from st.
func reply(c *fiber.Ctx, st arena.Status, v any) error {
	return c.Status(statusCode(st)).JSON(v)
}

// offerRequest describes the visitor to the offer network. A local or
// private client address is left empty so the fetcher resolves the public IP.
func offerRequest(c *fiber.Ctx) collector.OfferRequest {
	return collector.OfferRequest{IP: publicIP(c.IP()), UserAgent: c.Get(fiber.HeaderUserAgent)}
}

func publicIP(raw string) string {
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return ""
	}
	if addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() || addr.IsLinkLocalUnicast() {
		return ""
	}
	return addr.String()
}

func (s *Server) getState(c *fiber.Ctx) error {
	return c.JSON(s.arena.Snapshot(c.UserContext()))
}

func (s *Server) getNotifications(c *fiber.Ctx) error {
	if s.inbox == nil {
		return c.JSON([]model.Toast{})
	}
	return c.JSON(s.inbox.Drain())
}

func (s *Server) postLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON")
	}
	res, err := s.arena.Login(c.UserContext(), strings.TrimSpace(req.Identifier))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (s *Server) postSelect(c *fiber.Ctx) error {
	var req selectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON")
	}
	res, err := s.arena.SelectCandidate(c.UserContext(), req.CandidateID)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (s *Server) postLogout(c *fiber.Ctx) error {
	res := s.arena.Logout(c.UserContext())
	return reply(c, res.Status, res)
}

func (s *Server) postDailyChest(c *fiber.Ctx) error {
	res := s.arena.ClaimDailyChest(c.UserContext())
	return reply(c, res.Status, res)
}

func (s *Server) getSpin(c *fiber.Ctx) error {
	res := s.arena.SpinState(c.UserContext())
	return reply(c, res.Status, res)
}

func (s *Server) postSpin(c *fiber.Ctx) error {
	res := s.arena.StartSpin(c.UserContext())
	return reply(c, res.Status, res)
}

func (s *Server) getRush(c *fiber.Ctx) error {
	res := s.arena.RushState(c.UserContext())
	return reply(c, res.Status, res)
}

func (s *Server) postRush(c *fiber.Ctx) error {
	res := s.arena.StartRush(c.UserContext())
	return reply(c, res.Status, res)
}

func (s *Server) postCollect(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "token id must be an integer")
	}
	res := s.arena.CollectToken(c.UserContext(), id)
	return reply(c, res.Status, res)
}

func (s *Server) getShares(c *fiber.Ctx) error {
	return c.JSON(s.arena.ShareOptions())
}

func (s *Server) postShare(c *fiber.Ctx) error {
	res, err := s.arena.Share(c.UserContext(), c.Params("platform"))
	if err != nil {
		return err
	}
	return reply(c, res.Status, res)
}

// postProof accepts the upload as multipart field "proof". Only its name,
// content type and size are passed on.
func (s *Server) postProof(c *fiber.Ctx) error {
	fh, err := c.FormFile("proof")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing proof upload")
	}
	proof := claims.Proof{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
	}
	res, err := s.arena.SubmitProof(c.UserContext(), c.Params("platform"), proof)
	if err != nil {
		return err
	}
	return reply(c, res.Status, res)
}

func (s *Server) getExchange(c *fiber.Ctx) error {
	return c.JSON(s.arena.ExchangeOptions())
}

func (s *Server) postExchange(c *fiber.Ctx) error {
	var req exchangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON")
	}
	res, err := s.arena.Exchange(c.UserContext(), req.Option, req.Rate)
	if err != nil {
		return err
	}
	return reply(c, res.Status, res)
}

func (s *Server) getOffers(c *fiber.Ctx) error {
	res := s.arena.Offers(c.UserContext(), offerRequest(c))
	return reply(c, res.Status, res)
}

func (s *Server) postRequestOffer(c *fiber.Ctx) error {
	res, err := s.arena.RequestOffer(c.UserContext(), model.Activity(c.Params("activity")), offerRequest(c))
	if err != nil {
		return err
	}
	return reply(c, res.Status, res)
}

func (s *Server) postCompleteOffer(c *fiber.Ctx) error {
	res, err := s.arena.CompleteOffer(c.UserContext(), model.Activity(c.Params("activity")))
	if err != nil {
		return err
	}
	return reply(c, res.Status, res)
}

func (s *Server) postVerifyOffer(c *fiber.Ctx) error {
	res, err := s.arena.VerifyOffer(c.UserContext(), model.Activity(c.Params("activity")))
	if err != nil {
		return err
	}
	return reply(c, res.Status, res)
}
