package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"todo_store/internal/domain"
	"todo_store/internal/service"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
)

// Smoke test against a running server: subscribe to the change feed, create
// and delete a todo over HTTP and check both events arrive.
func main() {
	_ = godotenv.Load()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := "127.0.0.1:" + port

	var bearer string
	if issuer := service.NewTokenIssuer(os.Getenv("JWT_SECRET"), time.Minute); issuer != nil {
		token, err := issuer.Generate("ws_smoke")
		if err != nil {
			log.Fatalf("gen token: %v", err)
		}
		bearer = "Bearer " + token
	}

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+base+"/ws", nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if typ := readEvent(conn).Type; typ != "ready" {
		log.Fatalf("expected ready, got %q", typ)
	}

	body, _ := json.Marshal(map[string]any{"task": "smoke " + time.Now().Format(time.RFC3339)})
	created := call(http.MethodPost, "http://"+base+"/api/todos", body, bearer)
	var todo domain.Todo
	if err := json.Unmarshal(created, &todo); err != nil {
		log.Fatalf("decode created: %v (%s)", err, created)
	}

	if ev := readEvent(conn); ev.Type != domain.EventTodoCreated || ev.ID != todo.ID {
		log.Fatalf("unexpected event %+v", ev)
	}

	call(http.MethodDelete, "http://"+base+"/api/todos/"+todo.ID.String(), nil, bearer)
	if ev := readEvent(conn); ev.Type != domain.EventTodoDeleted || ev.ID != todo.ID {
		log.Fatalf("unexpected event %+v", ev)
	}

	log.Println("smoke test finished")
}

func readEvent(conn *websocket.Conn) domain.TodoEvent {
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		log.Fatalf("read: %v", err)
	}
	var ev domain.TodoEvent
	if err := json.Unmarshal(msg, &ev); err != nil {
		log.Fatalf("decode event: %v (%s)", err, msg)
	}
	log.Printf("got: %s", msg)
	return ev
}

func call(method, url string, body []byte, bearer string) []byte {
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		log.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(res.Body)
	if res.StatusCode >= 300 {
		log.Fatalf("%s %s: %s", method, url, fmt.Sprint(res.StatusCode, " ", buf.String()))
	}
	return buf.Bytes()
}
