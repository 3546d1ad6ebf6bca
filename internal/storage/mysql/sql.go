package mysql

// Single-row insert; the whole record lands or nothing does.
const insertHotelSQL = `
INSERT INTO hotels
  (id, user_id, name, city, country, description, type,
   adult_count, child_count, facilities, price_per_night, star_rating,
   image_urls, last_updated)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const hotelColumns = `
  id, user_id, name, city, country, description, type,
  adult_count, child_count, facilities, price_per_night, star_rating,
  image_urls, last_updated`

// Newest first; aligns with idx_hotels_owner (user_id, last_updated).
const listHotelsByOwnerSQL = `
SELECT` + hotelColumns + `
FROM hotels
WHERE user_id = ?
ORDER BY last_updated DESC, id DESC
`

const getHotelByOwnerSQL = `
SELECT` + hotelColumns + `
FROM hotels
WHERE id = ? AND user_id = ?
`
