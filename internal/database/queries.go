package database

import (
	"database/sql"
	"time"
)

const (
	// addMemberQuery is the single primitive behind both room creation and
	// joining: the ON CONFLICT clause makes a duplicate join a no-op instead
	// of a unique-constraint error.
	addMemberQuery = "INSERT INTO room_members (room_id, user_email, joined_at) " +
		"VALUES ($1, $2, $3) ON CONFLICT (room_id, user_email) DO NOTHING"
)

func (db *PgRoomRepository) CreateRoom(params CreateRoomParams) (Room, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return Room{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res := tx.QueryRow(
		"INSERT INTO rooms (room_id, creator_email, created_at, name) "+
			"VALUES ($1, $2, $3, $4) RETURNING room_id, creator_email, created_at, name",
		params.RoomId,
		params.CreatorEmail,
		time.Now().UTC(),
		params.Name,
	)

	var room Room
	err = res.Scan(
		&room.RoomId,
		&room.CreatorEmail,
		&room.CreatedAt,
		&room.Name,
	)
	if err != nil {
		return Room{}, err
	}

	_, err = tx.Exec(
		addMemberQuery,
		params.RoomId,
		params.CreatorEmail,
		time.Now().UTC(),
	)
	if err != nil {
		return Room{}, err
	}

	if err = tx.Commit(); err != nil {
		return Room{}, err
	}

	return room, nil
}

func (db *PgRoomRepository) GetRoom(roomId string) (Room, error) {
	row := db.conn.QueryRow(
		"SELECT room_id, creator_email, created_at, name FROM rooms "+
			"WHERE room_id = $1 LIMIT 1",
		roomId,
	)

	var room Room
	err := row.Scan(
		&room.RoomId,
		&room.CreatorEmail,
		&room.CreatedAt,
		&room.Name,
	)

	return room, err
}

func (db *PgRoomRepository) DeleteRoom(roomId string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.Exec("DELETE FROM room_messages WHERE room_id = $1", roomId)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM room_members WHERE room_id = $1", roomId)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM rooms WHERE room_id = $1", roomId)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// AddMember inserts a membership row and reports whether one was created.
// A false result with a nil error means the user was already a member.
func (db *PgRoomRepository) AddMember(roomId, userEmail string) (bool, error) {
	res, err := db.conn.Exec(
		addMemberQuery,
		roomId,
		userEmail,
		time.Now().UTC(),
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (db *PgRoomRepository) MemberExists(roomId, userEmail string) (bool, error) {
	res := db.conn.QueryRow(
		"SELECT id FROM room_members WHERE room_id = $1 AND user_email = $2 LIMIT 1",
		roomId,
		userEmail,
	)

	var id int
	if err := res.Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (db *PgRoomRepository) CreateMessage(roomId, senderEmail, content string) (Message, error) {
	res := db.conn.QueryRow(
		"INSERT INTO room_messages (room_id, sender_email, content, sent_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, room_id, sender_email, content, sent_at",
		roomId,
		senderEmail,
		content,
		time.Now().UTC(),
	)

	var msg Message
	err := res.Scan(
		&msg.Id,
		&msg.RoomId,
		&msg.SenderEmail,
		&msg.Content,
		&msg.SentAt,
	)

	return msg, err
}

func (db *PgRoomRepository) GetMessages(roomId string) ([]Message, error) {
	rows, err := db.conn.Query(
		"SELECT id, room_id, sender_email, content, sent_at FROM room_messages "+
			"WHERE room_id = $1 ORDER BY sent_at ASC, id ASC",
		roomId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages = make([]Message, 0)
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.Id, &msg.RoomId, &msg.SenderEmail, &msg.Content, &msg.SentAt); err != nil {
			return nil, err
		}

		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

func (db *PgRoomRepository) ListRoomsForUser(userEmail string) ([]Room, error) {
	rows, err := db.conn.Query(
		"SELECT r.room_id, r.creator_email, r.created_at, r.name FROM rooms r "+
			"JOIN room_members rm ON r.room_id = rm.room_id WHERE rm.user_email = $1",
		userEmail,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms = make([]Room, 0)
	for rows.Next() {
		var room Room
		if err := rows.Scan(&room.RoomId, &room.CreatorEmail, &room.CreatedAt, &room.Name); err != nil {
			return nil, err
		}

		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

func (db *PgRoomRepository) ListMembers(roomId string) ([]Membership, error) {
	rows, err := db.conn.Query(
		"SELECT id, room_id, user_email, joined_at FROM room_members WHERE room_id = $1",
		roomId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members = make([]Membership, 0)
	for rows.Next() {
		var m Membership
		if err := rows.Scan(&m.Id, &m.RoomId, &m.UserEmail, &m.JoinedAt); err != nil {
			return nil, err
		}

		members = append(members, m)
	}

	return members, rows.Err()
}
