package llm

const summarizePrompt = `Please provide a concise summary in Vietnamese for the following YouTube video.
The summary should be about 2-3 sentences long.

Video Title: "%s"

Video Description:
---
%s
---

Summary:`

const competitivePrompt = `Với vai trò là một chuyên gia phân tích dữ liệu YouTube, hãy thực hiện nhiệm vụ phân tích cạnh tranh dựa trên các hướng dẫn và dữ liệu được cung cấp.

**Định nghĩa nhiệm vụ (JSON):**
` + "```json" + `
%s
` + "```" + `

---

**Dữ liệu Video (CSV):**
Dưới đây là dữ liệu video từ nhiều kênh khác nhau. Các cột bao gồm: Channel Name, Video Title, Publish Date, View Count, Likes, Duration (ISO 8601).

` + "```csv" + `
%s
` + "```" + `

---

**Yêu cầu:**
Hãy thực hiện phân tích theo định nghĩa nhiệm vụ trong file JSON và trả về kết quả.
Tập trung vào việc tạo ra phần **"text_summary"** trước tiên, định dạng bằng Markdown rõ ràng, dễ đọc, tuân thủ văn phong và cấu trúc đã chỉ định. Sử dụng tiếng Việt cho toàn bộ báo cáo phân tích.`

const openerPrompt = `Xin chào! Tôi là trợ lý AI sáng tạo của bạn. Tôi đã xem qua kênh "%s" và nhận thấy các chủ đề nổi bật gần đây là: **%s**.

Làm thế nào để tôi có thể giúp bạn brainstorm ý tưởng video mới hôm nay? Bạn có thể hỏi tôi về:
- 5 ý tưởng video mới dựa trên từ khóa "abc".
- Gợi ý một tiêu đề hấp dẫn cho video về "xyz".
- Phân tích đối tượng khán giả của kênh.`

const noDescription = "No description provided."
