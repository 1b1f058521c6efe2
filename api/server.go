/*
 * Copyright 2023 ICON Foundation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/icon-project/btp2/common/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eosabi/abicodec/abi"
)

const (
	ParamContract      = "contract"
	ParamType          = "type"
	ParamText          = "text"
	ParamValue         = "value"
	WsHandshakeTimeout = time.Second * 3
)

func Logger(l log.Logger) log.Logger {
	return l.WithFields(log.Fields{log.FieldKeyModule: "api"})
}

// Server is the HTTP/WebSocket façade over one process-wide *abi.Context.
// It holds no codec logic of its own: every route parses its request,
// calls into abi, and marshals the result.
type Server struct {
	e    *echo.Echo
	addr string
	ctx  *abi.Context
	u    websocket.Upgrader
	lv   log.Level
	l    log.Logger
}

func NewServer(addr string, dumpLogLevel log.Level, l log.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HttpErrorHandler
	return &Server{
		e:    e,
		addr: addr,
		ctx:  abi.Create(),
		lv:   dumpLogLevel,
		l:    Logger(l),
	}
}

func (s *Server) Start() error {
	s.l.Infoln("starting the server")
	s.e.Use(
		middleware.CORSWithConfig(middleware.CORSConfig{
			MaxAge: 3600,
		}),
		middleware.Recover())
	s.RegisterAPIHandler(s.e.Group(""))
	return s.e.Start(s.addr)
}

type jsonToBinResponse struct {
	Hex string `json:"hex"`
}

type binToJsonRequest struct {
	Hex string `json:"hex"`
}

type nameToStringResponse struct {
	Text string `json:"text"`
}

type nameFromStringResponse struct {
	Value uint64 `json:"value"`
}

func (s *Server) RegisterAPIHandler(g *echo.Group) {
	g.Use(middleware.BodyDump(func(c echo.Context, reqBody []byte, resBody []byte) {
		s.l.Debugf("url=%s", c.Request().RequestURI)
		s.l.Logf(s.lv, "request=%s", reqBody)
		s.l.Logf(s.lv, "response=%s", resBody)
	}))

	g.PUT("/abi/:"+ParamContract, func(c echo.Context) error {
		id, err := s.contractParam(c)
		if err != nil {
			return err
		}
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return err
		}
		if err := s.ctx.SetABI(id, body); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})

	g.POST("/convert/json-to-bin/:"+ParamContract+"/:"+ParamType, func(c echo.Context) error {
		id, err := s.contractParam(c)
		if err != nil {
			return err
		}
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return err
		}
		reorderable := c.QueryParam("reorderable") == "true"
		if err := s.ctx.JSONToBin(id, c.Param(ParamType), body, reorderable); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, &jsonToBinResponse{Hex: s.ctx.GetBinHex()})
	})

	g.POST("/convert/bin-to-json/:"+ParamContract+"/:"+ParamType, func(c echo.Context) error {
		id, err := s.contractParam(c)
		if err != nil {
			return err
		}
		req := &binToJsonRequest{}
		if err := c.Bind(req); err != nil {
			return err
		}
		binary, err := decodeHex(req.Hex)
		if err != nil {
			return err
		}
		out, err := s.ctx.BinToJSON(id, c.Param(ParamType), binary)
		if err != nil {
			return err
		}
		return c.JSONBlob(http.StatusOK, []byte(out))
	})

	g.GET("/name/:"+ParamText, func(c echo.Context) error {
		v, err := s.ctx.StringToName(c.Param(ParamText))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, &nameFromStringResponse{Value: v})
	})

	g.GET("/name-to-string/:"+ParamValue, func(c echo.Context) error {
		v, err := strconv.ParseUint(c.Param(ParamValue), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusOK, &nameToStringResponse{Text: s.ctx.NameToString(v)})
	})

	g.GET("/ws", func(c echo.Context) error {
		conn, err := s.wsConnect(c)
		if err != nil {
			return err
		}
		defer s.wsClose(conn)
		return s.wsReadLoop(c.Request().Context(), conn, s.handleWsFrame)
	})
}

func (s *Server) contractParam(c echo.Context) (uint64, error) {
	v, err := strconv.ParseUint(c.Param(ParamContract), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return v, nil
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimSpace(s))
}

// wsRequest is the one-shot frame shape a client sends over /ws: op selects
// which of the four HTTP operations to run against the same *abi.Context.
type wsRequest struct {
	Op          string `json:"op"`
	Contract    uint64 `json:"contract"`
	Type        string `json:"type"`
	Reorderable bool   `json:"reorderable"`
	JSON        json.RawMessage `json:"json"`
	Hex         string `json:"hex"`
	Text        string `json:"text"`
	Value       uint64 `json:"value"`
}

type wsResponse struct {
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Hex   string          `json:"hex,omitempty"`
	JSON  json.RawMessage `json:"json,omitempty"`
	Text  string          `json:"text,omitempty"`
	Value uint64          `json:"value,omitempty"`
}

// handleWsFrame runs one complete json_to_bin/bin_to_json/name call per
// frame; the socket multiplexes requests, it does not stream one value's
// decode across frames.
func (s *Server) handleWsFrame(b []byte) *wsResponse {
	req := &wsRequest{}
	if err := json.Unmarshal(b, req); err != nil {
		return &wsResponse{Error: err.Error()}
	}
	switch req.Op {
	case "json_to_bin":
		if err := s.ctx.JSONToBin(req.Contract, req.Type, req.JSON, req.Reorderable); err != nil {
			return &wsResponse{Error: err.Error()}
		}
		return &wsResponse{OK: true, Hex: s.ctx.GetBinHex()}
	case "bin_to_json":
		binary, err := decodeHex(req.Hex)
		if err != nil {
			return &wsResponse{Error: err.Error()}
		}
		out, err := s.ctx.BinToJSON(req.Contract, req.Type, binary)
		if err != nil {
			return &wsResponse{Error: err.Error()}
		}
		return &wsResponse{OK: true, JSON: json.RawMessage(out)}
	case "string_to_name":
		v, err := s.ctx.StringToName(req.Text)
		if err != nil {
			return &wsResponse{Error: err.Error()}
		}
		return &wsResponse{OK: true, Value: v}
	case "name_to_string":
		return &wsResponse{OK: true, Text: s.ctx.NameToString(req.Value)}
	default:
		return &wsResponse{Error: "unknown op " + req.Op}
	}
}

func (s *Server) wsID(conn *websocket.Conn) string {
	return conn.RemoteAddr().String()
}

func (s *Server) wsConnect(c echo.Context) (*websocket.Conn, error) {
	conn, err := s.u.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.l.Debugf("fail to Upgrade err:%+v", err)
		return nil, err
	}
	s.l.Debugf("[%s]wsConnect", s.wsID(conn))
	return conn, nil
}

func (s *Server) wsClose(conn *websocket.Conn) {
	s.l.Debugf("[%s]wsClose", s.wsID(conn))
	conn.Close()
}

func (s *Server) wsWrite(conn *websocket.Conn, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.l.Logf(s.lv, "[%s]wsWrite=%s", s.wsID(conn), b)
	return conn.WriteMessage(websocket.TextMessage, b)
}

func (s *Server) wsReadLoop(ctx context.Context, conn *websocket.Conn, cb func(b []byte) *wsResponse) error {
	id := s.wsID(conn)
	ech := make(chan error, 1)
	go func() {
		defer func() {
			s.l.Debugf("[%s]wsReadLoop finish", id)
		}()
		for {
			_, b, err := conn.ReadMessage()
			if err != nil {
				ech <- err
				break
			}
			s.l.Logf(s.lv, "[%s]wsReadLoop=%s", id, b)
			if err = s.wsWrite(conn, cb(b)); err != nil {
				ech <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		s.l.Debugf("[%s]wsReadLoop context Done", id)
		return ctx.Err()
	case err := <-ech:
		s.l.Debugf("[%s]wsReadLoop err:%+v", id, err)
		return err
	}
}
