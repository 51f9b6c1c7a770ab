package repository

var (
	BuildReservedCount     = buildReservedCount
	BuildRoomLeft          = buildRoomLeft
	BuildAvailableRooms    = buildAvailableRooms
	BuildAvailableHotelIDs = buildAvailableHotelIDs
)
