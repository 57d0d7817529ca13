package ws

// Hub chịu trách nhiệm:
//
// Giữ các kết nối client của dashboard.
//
// Nhận sự kiện tiến độ tổng hợp từ service báo cáo.
//
// Broadcast sự kiện tới mọi client đang kết nối.

import (
	"log"

	"github.com/gorilla/websocket"
)

// Client đại diện một kết nối WebSocket.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub quản lý toàn bộ kết nối client. Một hub do main sở hữu và truyền
// xuống; không dùng biến toàn cục để các cây UI độc lập không dẫm lên nhau.
type Hub struct {
	Clients    map[*Client]bool
	broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Broadcast gửi một message tới mọi client. Không block khi hub đầy:
// sự kiện tiến độ bị rơi còn hơn là chặn vòng tổng hợp.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
			log.Println("ws: client registered")
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				log.Println("ws: client unregistered")
			}
		case message := <-h.broadcast:
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.Clients, client)
				}
			}
		}
	}
}
