// Package server feeds RADIUS accounting traffic from BNGs into the client store.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"layeh.com/radius"
	"layeh.com/radius/rfc2865"
	"layeh.com/radius/rfc2866"

	"github.com/mohit83k/bngclients/internal/gatewaymap"
	"github.com/mohit83k/bngclients/internal/logger"
	"github.com/mohit83k/bngclients/internal/model"
	"github.com/mohit83k/bngclients/internal/validate"
)

// Ingester is the ingest pipeline as seen by the accounting feed.
type Ingester interface {
	IngestRecord(ctx context.Context, row model.Row) (model.ClientRecord, error)
	Remove(ctx context.Context, mac string) error
}

// Server handles incoming RADIUS Accounting-Request packets.
type Server struct {
	Addr     string
	Secret   []byte
	Ingest   Ingester
	Gateways *gatewaymap.Map
	Logger   logger.Logger
}

// NewServer returns a new RADIUS accounting server.
func NewServer(addr string, secret string, ingest Ingester, gateways *gatewaymap.Map, log logger.Logger) *Server {
	return &Server{
		Addr:     addr,
		Secret:   []byte(secret),
		Ingest:   ingest,
		Gateways: gateways,
		Logger:   log,
	}
}

// ListenAndServe listens for RADIUS packets and processes them.
func (s *Server) ListenAndServe(ctx context.Context) error {

	addr, err := net.ResolveUDPAddr("udp", s.Addr)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on UDP: %w", err)
	}
	defer conn.Close()

	s.Logger.Info("RADIUS accounting feed listening on " + s.Addr)
	go func() {
		<-ctx.Done()
		_ = conn.Close() // this will unblock ReadFromUDP
	}()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("Shutting down RADIUS accounting feed")
			return nil
		default:
			n, remoteAddr, err := conn.ReadFromUDP(buf)
			if err != nil {
				if ctx.Err() != nil {
					return nil // graceful exit after unblock
				}
				s.Logger.Error(fmt.Errorf("failed to read UDP: %w", err))
				continue
			}

			data := make([]byte, n)
			copy(data, buf[:n])
			go s.handlePacket(ctx, conn, data, remoteAddr)
		}
	}
}

func (s *Server) handlePacket(ctx context.Context, conn net.PacketConn, data []byte, remoteAddr *net.UDPAddr) {

	packet, err := radius.Parse(data, s.Secret)
	if err != nil {
		s.Logger.WithFields(map[string]any{
			"bytes": len(data),
			"from":  remoteAddr.String(),
		}).Error(err)
		return
	}

	if packet.Code != radius.CodeAccountingRequest {
		s.Logger.WithFields(map[string]any{"type": packet.Code}).Info("Ignoring non-accounting packet")
		return
	}

	row := s.rowFromPacket(packet)
	mac := row.Value(model.ColMAC)
	status := rfc2866.AcctStatusType_Get(packet)

	switch status {
	case rfc2866.AcctStatusType_Value_Start, rfc2866.AcctStatusType_Value_InterimUpdate:
		rec, err := s.Ingest.IngestRecord(ctx, row)
		var rowErr *validate.RowError
		switch {
		case errors.As(err, &rowErr):
			s.Logger.WithFields(map[string]any{
				"from":   remoteAddr.String(),
				"errors": rowErr.Errors,
				"data":   rowErr.Data,
			}).Warn("Rejected accounting record")
		case err != nil:
			// No response: the NAS retransmits until the store is back.
			s.Logger.Error(fmt.Errorf("failed to store client %s: %w", mac, err))
			return
		default:
			s.Logger.WithFields(map[string]any{
				"mac":    rec.MAC,
				"ip":     rec.ClientIP,
				"bng":    rec.GatewayIP,
				"index":  rec.RoutingIndex,
				"status": status.String(),
			}).Info("Stored client from accounting")
		}

	case rfc2866.AcctStatusType_Value_Stop:
		if err := s.Ingest.Remove(ctx, mac); err != nil {
			if model.IsKind(err, model.KindStorage) {
				s.Logger.Error(fmt.Errorf("failed to remove client %s: %w", mac, err))
				return
			}
			s.Logger.WithFields(map[string]any{"mac": mac}).Warn("Ignoring stop for invalid MAC")
		}

	default:
		s.Logger.WithFields(map[string]any{"status": status.String()}).Info("Ignoring accounting status")
	}

	// Send back Accounting-Response
	resp := packet.Response(radius.CodeAccountingResponse)
	encodedResp, err := resp.Encode()
	if err != nil {
		s.Logger.Error(fmt.Errorf("failed to encode response: %w", err))
		return
	}
	if conn != nil {
		_, err = conn.WriteTo(encodedResp, remoteAddr)
		if err != nil {
			s.Logger.Error(fmt.Errorf("failed to send response: %w", err))
		}
	}
}

// rowFromPacket maps accounting attributes onto the upload column layout.
func (s *Server) rowFromPacket(packet *radius.Packet) model.Row {
	gateway := rfc2865.NASIPAddress_Get(packet).String()

	index, ok := s.Gateways.Lookup(gateway)
	if !ok {
		index = rfc2865.NASIdentifier_GetString(packet)
	}

	return model.Row{
		Number: 1,
		Fields: []string{
			rfc2865.FramedIPAddress_Get(packet).String(),
			normalizeMAC(rfc2865.CallingStationID_GetString(packet)),
			strconv.Itoa(int(rfc2865.NASPort_Get(packet))),
			gateway,
			index,
		},
	}
}

// normalizeMAC rewrites hyphen or dotted station IDs in colon form.
// Anything unparseable is passed through for validation to reject.
func normalizeMAC(s string) string {
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return s
	}
	return hw.String()
}
